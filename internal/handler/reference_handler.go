package handler

import (
	"net/http"

	"inventaris/internal/middleware"
	"inventaris/internal/service"
	"inventaris/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the category and supplier lookup tables.
// Reads are open to any authenticated user so item forms can populate
// dropdowns; writes are manager only.
type ReferenceHandler struct {
	referenceService service.ReferenceService
}

func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/categories")
	{
		categories.GET("", middleware.RequireAuth(), h.ListCategories)
		categories.POST("", middleware.RequireManager(), h.CreateCategory)
		categories.PUT("/:id", middleware.RequireManager(), h.UpdateCategory)
		categories.DELETE("/:id", middleware.RequireManager(), h.DeleteCategory)
	}

	suppliers := router.Group("/api/suppliers")
	{
		suppliers.GET("", middleware.RequireAuth(), h.ListSuppliers)
		suppliers.POST("", middleware.RequireManager(), h.CreateSupplier)
		suppliers.PUT("/:id", middleware.RequireManager(), h.UpdateSupplier)
		suppliers.DELETE("/:id", middleware.RequireManager(), h.DeleteSupplier)
	}
}

// @Summary  List categories
// @Tags     references
// @Security BearerAuth
// @Produce  json
// @Success  200  {object}  response.Response{data=[]model.Category}
// @Router   /api/categories [get]
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	categories, err := h.referenceService.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// @Summary  Create category
// @Tags     references
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    payload  body      service.CategoryRequest  true  "Category Payload"
// @Success  201      {object}  response.Response{data=model.Category}
// @Router   /api/categories [post]
func (h *ReferenceHandler) CreateCategory(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.referenceService.CreateCategory(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// @Summary  Update category
// @Tags     references
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id       path      int                      true  "Category ID"
// @Param    payload  body      service.CategoryRequest  true  "Category Payload"
// @Success  200      {object}  response.Response{data=model.Category}
// @Router   /api/categories/{id} [put]
func (h *ReferenceHandler) UpdateCategory(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.referenceService.UpdateCategory(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// @Summary  Delete category
// @Tags     references
// @Security BearerAuth
// @Produce  json
// @Param    id   path      int  true  "Category ID"
// @Success  200  {object}  response.Response
// @Router   /api/categories/{id} [delete]
func (h *ReferenceHandler) DeleteCategory(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.referenceService.DeleteCategory(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Category deleted successfully"))
}

// @Summary  List suppliers
// @Tags     references
// @Security BearerAuth
// @Produce  json
// @Success  200  {object}  response.Response{data=[]model.Supplier}
// @Router   /api/suppliers [get]
func (h *ReferenceHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.referenceService.ListSuppliers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, suppliers))
}

// @Summary  Create supplier
// @Tags     references
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    payload  body      service.SupplierRequest  true  "Supplier Payload"
// @Success  201      {object}  response.Response{data=model.Supplier}
// @Router   /api/suppliers [post]
func (h *ReferenceHandler) CreateSupplier(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}

	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.referenceService.CreateSupplier(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// @Summary  Update supplier
// @Tags     references
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id       path      int                      true  "Supplier ID"
// @Param    payload  body      service.SupplierRequest  true  "Supplier Payload"
// @Success  200      {object}  response.Response{data=model.Supplier}
// @Router   /api/suppliers/{id} [put]
func (h *ReferenceHandler) UpdateSupplier(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	supplier, err := h.referenceService.UpdateSupplier(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// @Summary  Delete supplier
// @Tags     references
// @Security BearerAuth
// @Produce  json
// @Param    id   path      int  true  "Supplier ID"
// @Success  200  {object}  response.Response
// @Router   /api/suppliers/{id} [delete]
func (h *ReferenceHandler) DeleteSupplier(c *gin.Context) {
	caller, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.referenceService.DeleteSupplier(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Supplier deleted successfully"))
}
