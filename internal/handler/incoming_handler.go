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

type IncomingItemHandler struct {
	incomingService service.IncomingItemService
}

func NewIncomingItemHandler(incomingService service.IncomingItemService) *IncomingItemHandler {
	return &IncomingItemHandler{incomingService: incomingService}
}

func (h *IncomingItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	incoming := router.Group("/api/incoming-items", middleware.RequireManager())
	{
		incoming.GET("", h.ListReceipts)
		incoming.GET("/:id", h.GetReceipt)
		incoming.POST("", h.CreateReceipt)
		incoming.DELETE("/:id", h.DeleteReceipt)
	}
}

// ListReceipts retrieves paginated goods receipts
// @Summary      List incoming items
// @Tags         incoming-items
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number"
// @Param        limit      query  int     false  "Items per page"
// @Param        search     query  string  false  "Search by item name or code"
// @Param        no_sj      query  string  false  "Filter by delivery order number"
// @Param        date_from  query  string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]model.IncomingItem}
// @Router       /api/incoming-items [get]
func (h *IncomingItemHandler) ListReceipts(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.ReceiptFilter{
		Search:   c.Query("search"),
		NoSJ:     c.Query("no_sj"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	receipts, total, err := h.incomingService.ListReceipts(c.Request.Context(), caller, filter, params.Offset, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, receipts, params.Page, params.Limit, total))
}

// GetReceipt retrieves a single goods receipt
// @Summary      Get incoming item
// @Tags         incoming-items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=model.IncomingItem}
// @Failure      404  {object}  response.Response
// @Router       /api/incoming-items/{id} [get]
func (h *IncomingItemHandler) GetReceipt(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	receipt, err := h.incomingService.GetReceipt(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// CreateReceipt records a goods receipt and increases stock atomically
// @Summary      Create incoming item
// @Description  Records a goods receipt; the item stock increases in the same transaction
// @Tags         incoming-items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReceiptRequest  true  "Create Receipt Payload"
// @Success      201      {object}  response.Response{data=model.IncomingItem}
// @Failure      400      {object}  response.Response
// @Router       /api/incoming-items [post]
func (h *IncomingItemHandler) CreateReceipt(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	receipt, err := h.incomingService.CreateReceipt(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, receipt))
}

// DeleteReceipt reverses a goods receipt
// @Summary      Delete incoming item
// @Description  Deletes a receipt and subtracts its quantity from stock. With STRICT_REVERSAL enabled the call fails if the reversal would drive stock negative.
// @Tags         incoming-items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Receipt ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/incoming-items/{id} [delete]
func (h *IncomingItemHandler) DeleteReceipt(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.incomingService.DeleteReceipt(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Receipt deleted successfully"))
}
