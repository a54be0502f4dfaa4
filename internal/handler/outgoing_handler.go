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

type OutgoingItemHandler struct {
	outgoingService service.OutgoingItemService
}

func NewOutgoingItemHandler(outgoingService service.OutgoingItemService) *OutgoingItemHandler {
	return &OutgoingItemHandler{outgoingService: outgoingService}
}

func (h *OutgoingItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	outgoing := router.Group("/api/outgoing-items", middleware.RequireManager())
	{
		outgoing.GET("", h.ListDispatches)
		outgoing.GET("/:id", h.GetDispatch)
		outgoing.POST("", h.CreateDispatch)
		outgoing.DELETE("/:id", h.DeleteDispatch)
	}
}

// ListDispatches retrieves paginated dispatches
// @Summary      List outgoing items
// @Tags         outgoing-items
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number"
// @Param        limit      query  int     false  "Items per page"
// @Param        search     query  string  false  "Search by item name or code"
// @Param        site       query  string  false  "Filter by destination site"
// @Param        date_from  query  string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.OutgoingItem}
// @Router       /api/outgoing-items [get]
func (h *OutgoingItemHandler) ListDispatches(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.DispatchFilter{
		Search:   c.Query("search"),
		NoSJ:     c.Query("no_sj"),
		Site:     c.Query("site"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	dispatches, total, err := h.outgoingService.ListDispatches(c.Request.Context(), caller, filter, params.Offset, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, dispatches, params.Page, params.Limit, total))
}

// GetDispatch retrieves a single dispatch
// @Summary      Get outgoing item
// @Tags         outgoing-items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Dispatch ID"
// @Success      200  {object}  response.Response{data=model.OutgoingItem}
// @Failure      404  {object}  response.Response
// @Router       /api/outgoing-items/{id} [get]
func (h *OutgoingItemHandler) GetDispatch(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	dispatch, err := h.outgoingService.GetDispatch(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dispatch))
}

// CreateDispatch records an outgoing movement, decrementing stock first
// @Summary      Create outgoing item
// @Description  Records a dispatch to a site. Stock is decremented atomically; returns 422 when stock is insufficient.
// @Tags         outgoing-items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDispatchRequest  true  "Create Dispatch Payload"
// @Success      201      {object}  response.Response{data=model.OutgoingItem}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/outgoing-items [post]
func (h *OutgoingItemHandler) CreateDispatch(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.CreateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dispatch, err := h.outgoingService.CreateDispatch(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dispatch))
}

// DeleteDispatch reverses a dispatch, returning its quantity to stock
// @Summary      Delete outgoing item
// @Tags         outgoing-items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Dispatch ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/outgoing-items/{id} [delete]
func (h *OutgoingItemHandler) DeleteDispatch(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.outgoingService.DeleteDispatch(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Dispatch deleted successfully"))
}
