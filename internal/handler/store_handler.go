package handler

import (
	"net/http"
	"strings"

	"gamearena/backend/internal/database"
	"gamearena/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// region --- DTOs ---

type StoreItemInput struct {
	Name        string               `json:"name" binding:"required" example:"Pro Gaming Headset"`
	Description string               `json:"description" example:"7.1 surround sound"`
	Price       decimal.Decimal      `json:"price" swaggertype:"number" example:"149.99"`
	Category    models.StoreCategory `json:"category" binding:"required" example:"gear"`
	ImageURL    string               `json:"image_url"`
	InStock     *bool                `json:"in_stock"`
}

func (in StoreItemInput) validate() string {
	if !in.Price.IsPositive() {
		return "Price must be greater than zero"
	}
	if !in.Category.Valid() {
		return "Category must be one of gear, skins, accessories, merchandise"
	}
	return ""
}

type StoreItemResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Price       string               `json:"price" example:"149.99"`
	Category    models.StoreCategory `json:"category"`
	ImageURL    string               `json:"image_url,omitempty"`
	InStock     bool                 `json:"in_stock"`
}

func newStoreItemResponse(item models.StoreItem) StoreItemResponse {
	return StoreItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		InStock:     item.InStock,
	}
}

// endregion

// region --- Store Handlers ---

// GetStoreItems godoc
// @Summary      Browse the store
// @Description  Lists store items with optional category and name search.
// @Tags         store
// @Produce      json
// @Param        category query string false "Category" Enums(gear, skins, accessories, merchandise)
// @Param        q        query string false "Search in name"
// @Param        page     query int    false "Page number" default(1)
// @Param        limit    query int    false "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[StoreItemResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /store/items [get]
func GetStoreItems(c *gin.Context) {
	page, limit := pageParams(c)
	query := database.DB.WithContext(c.Request.Context()).Model(&models.StoreItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+q+"%")
	}

	items, err := Paginate[models.StoreItem](query.Order("name"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store items"})
		return
	}
	c.JSON(http.StatusOK, MapPage(items, newStoreItemResponse))
}

// CreateStoreItem godoc
// @Summary      Add a store item
// @Tags         admin-store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body StoreItemInput true "Item"
// @Success      201  {object}  StoreItemResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/store/items [post]
func CreateStoreItem(c *gin.Context) {
	var input StoreItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	item := models.StoreItem{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		InStock:     input.InStock == nil || *input.InStock,
	}
	if err := database.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store item"})
		return
	}
	c.JSON(http.StatusCreated, newStoreItemResponse(item))
}

// UpdateStoreItem godoc
// @Summary      Update a store item
// @Tags         admin-store
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string         true "Item ID"
// @Param        input body StoreItemInput true "Item"
// @Success      200  {object}  StoreItemResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Item not found"
// @Router       /admin/store/items/{id} [put]
func UpdateStoreItem(c *gin.Context) {
	var input StoreItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	db := database.DB.WithContext(c.Request.Context())

	var item models.StoreItem
	if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price.Round(2)
	item.Category = input.Category
	item.ImageURL = input.ImageURL
	if input.InStock != nil {
		item.InStock = *input.InStock
	}
	if err := db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update store item"})
		return
	}
	c.JSON(http.StatusOK, newStoreItemResponse(item))
}

// DeleteStoreItem godoc
// @Summary      Remove a store item
// @Tags         admin-store
// @Security     BearerAuth
// @Param        id path string true "Item ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Item not found"
// @Router       /admin/store/items/{id} [delete]
func DeleteStoreItem(c *gin.Context) {
	res := database.DB.WithContext(c.Request.Context()).Delete(&models.StoreItem{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete store item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion
