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

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", middleware.RequireAuth(), h.ListItems)
		items.GET("/:id", middleware.RequireAuth(), h.GetItem)
		items.POST("", middleware.RequireManager(), h.CreateItem)
		items.PUT("/:id", middleware.RequireManager(), h.UpdateItem)
		items.DELETE("/:id", middleware.RequireManager(), h.DeleteItem)
	}
}

// ListItems handles retrieving the paginated item catalog
// @Summary      List items
// @Description  Retrieves a paginated list of catalog items with current stock
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 15)"
// @Param        search       query     string  false  "Search by item name or code"
// @Param        type         query     string  false  "Filter by item type (consumable, raw, material)"
// @Param        category_id  query     int     false  "Filter by category"
// @Success      200  {object}  response.Response{data=[]model.Item}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.ItemFilter{
		Search:     c.Query("search"),
		Type:       c.Query("type"),
		CategoryID: queryUint(c, "category_id"),
	}

	items, total, err := h.itemService.ListItems(c.Request.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, items, params.Page, params.Limit, total))
}

// GetItem retrieves one item by ID
// @Summary      Get item
// @Description  Retrieves a single catalog item with category and supplier
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  response.Response{data=model.Item}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem creates a new catalog item with a generated code
// @Summary      Create item
// @Description  Creates a catalog item; the item code is generated from the type prefix and the next sequence number
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=model.Item}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates item metadata; stock is never touched here
// @Summary      Update item
// @Description  Updates item details by ID. Stock quantity and item code are immutable through this endpoint.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=model.Item}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an item and its movement history
// @Summary      Delete item
// @Description  Deletes an item together with its receipts, dispatches and requests
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}
