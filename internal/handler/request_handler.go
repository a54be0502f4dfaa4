package handler

import (
	"net/http"

	"inventaris/internal/middleware"
	"inventaris/internal/repository"
	"inventaris/internal/service"
	"inventaris/pkg/pagination"
	"inventaris/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemRequestHandler struct {
	requestService service.ItemRequestService
}

func NewItemRequestHandler(requestService service.ItemRequestService) *ItemRequestHandler {
	return &ItemRequestHandler{requestService: requestService}
}

func (h *ItemRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/item-requests", middleware.RequireAuth())
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("", h.SubmitRequest)
		requests.PUT("/:id", h.EditRequest)
		requests.DELETE("/:id", h.CancelRequest)
		// Decisions are manager-only; the service re-checks the role
		requests.POST("/:id/approve", middleware.RequireManager(), h.ApproveRequest)
		requests.POST("/:id/reject", middleware.RequireManager(), h.RejectRequest)
	}
}

// ListRequests retrieves paginated item requests. Regular users only
// ever see their own; the filter is forced server side.
// @Summary      List item requests
// @Tags         item-requests
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by item name or code"
// @Param        status  query  string  false  "Filter by status (pending, approved, rejected)"
// @Param        user_id query  int     false  "Filter by requester (managers only)"
// @Success      200  {object}  response.Response{data=[]model.ItemRequest}
// @Router       /api/item-requests [get]
func (h *ItemRequestHandler) ListRequests(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.RequestFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		UserID: queryUint(c, "user_id"),
	}

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), caller, filter, params.Offset, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, requests, params.Page, params.Limit, total))
}

// GetRequest retrieves one request (owner or manager)
// @Summary      Get item request
// @Tags         item-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response{data=model.ItemRequest}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/item-requests/{id} [get]
func (h *ItemRequestHandler) GetRequest(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// SubmitRequest creates a pending request; stock is untouched until approval
// @Summary      Submit item request
// @Tags         item-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequestRequest  true  "Submit Request Payload"
// @Success      201      {object}  response.Response{data=model.ItemRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/item-requests [post]
func (h *ItemRequestHandler) SubmitRequest(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.requestService.SubmitRequest(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// EditRequest updates a pending request (owner only)
// @Summary      Edit item request
// @Description  Owners may edit their own requests while still pending; processed requests return 409
// @Tags         item-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Request ID"
// @Param        payload  body      service.EditRequestRequest  true  "Edit Request Payload"
// @Success      200      {object}  response.Response{data=model.ItemRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/item-requests/{id} [put]
func (h *ItemRequestHandler) EditRequest(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.EditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.requestService.EditRequest(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// CancelRequest removes a pending request (owner or manager)
// @Summary      Cancel item request
// @Tags         item-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/item-requests/{id} [delete]
func (h *ItemRequestHandler) CancelRequest(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.requestService.CancelRequest(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request cancelled successfully"))
}

// ApproveRequest approves a pending request and decrements stock
// @Summary      Approve item request
// @Description  Approves a pending request; stock is decremented in the same transaction. Insufficient stock returns 422 and the request stays pending.
// @Tags         item-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true   "Request ID"
// @Param        payload  body      service.DecideRequestRequest  false  "Optional notes"
// @Success      200      {object}  response.Response{data=model.ItemRequest}
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/item-requests/{id}/approve [post]
func (h *ItemRequestHandler) ApproveRequest(c *gin.Context) {
	h.decide(c, service.DecisionApprove)
}

// RejectRequest rejects a pending request without touching stock
// @Summary      Reject item request
// @Tags         item-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true   "Request ID"
// @Param        payload  body      service.DecideRequestRequest  false  "Optional notes"
// @Success      200      {object}  response.Response{data=model.ItemRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/item-requests/{id}/reject [post]
func (h *ItemRequestHandler) RejectRequest(c *gin.Context) {
	h.decide(c, service.DecisionReject)
}

func (h *ItemRequestHandler) decide(c *gin.Context, decision string) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Body is optional; decisions without notes post an empty payload
	var req service.DecideRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}
	req.Action = decision

	request, err := h.requestService.DecideRequest(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
