package handlers

import (
	"math"
	"net/http"
	"strconv"

	"retailhub-backend/models"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name              string  `json:"name" binding:"required"`
		Description       string  `json:"description"`
		Category          string  `json:"category" binding:"required"`
		Price             float64 `json:"price" binding:"required,min=0.01"`
		Discount          float64 `json:"discount"`
		WarehouseStock    int     `json:"warehouse_stock"`
		LowStockThreshold int     `json:"low_stock_threshold"`
		Manufacturer      string  `json:"manufacturer"`
		Publish           *bool   `json:"publish"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category id"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}

	lowStock := req.LowStockThreshold
	if lowStock == 0 {
		lowStock = 10
	}
	publish := true
	if req.Publish != nil {
		publish = *req.Publish
	}

	product := models.Product{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        categoryID,
		Price:             req.Price,
		Discount:          req.Discount,
		WarehouseStock:    req.WarehouseStock,
		LowStockThreshold: lowStock,
		Manufacturer:      req.Manufacturer,
		Publish:           publish,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
		return
	}

	h.DB.Preload("Category").First(&product, "id = ?", product.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created successfully", "product": product})
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if publish := c.Query("publish"); publish != "" {
		query = query.Where("publish = ?", publish == "true")
	}
	if manufacturer := c.Query("manufacturer"); manufacturer != "" {
		query = query.Where("manufacturer = ?", manufacturer)
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", "%"+search+"%", "%"+search+"%")
	}

	sortBy := c.DefaultQuery("sortBy", "created_at")
	switch sortBy {
	case "name", "price", "created_at":
	default:
		sortBy = "created_at"
	}
	order := sortBy
	if c.DefaultQuery("sortOrder", "desc") == "desc" {
		order += " DESC"
	}

	var total int64
	query.Count(&total)

	products := []models.Product{}
	if err := query.Preload("Category").Order(order).Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var req struct {
		Name              *string  `json:"name"`
		Description       *string  `json:"description"`
		Category          *string  `json:"category"`
		Price             *float64 `json:"price"`
		Discount          *float64 `json:"discount"`
		WarehouseStock    *int     `json:"warehouse_stock"`
		LowStockThreshold *int     `json:"low_stock_threshold"`
		Manufacturer      *string  `json:"manufacturer"`
		Publish           *bool    `json:"publish"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Category != nil {
		categoryID, err := uuid.Parse(*req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category id"})
			return
		}
		if categoryID != product.CategoryID {
			var category models.Category
			if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
				return
			}
			product.CategoryID = categoryID
		}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.WarehouseStock != nil {
		product.WarehouseStock = *req.WarehouseStock
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.Publish != nil {
		product.Publish = *req.Publish
	}

	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
		return
	}

	h.DB.Preload("Category").First(&product, "id = ?", product.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated successfully", "product": product})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var orderCount int64
	h.DB.Model(&models.Order{}).Where("product_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cannot delete product with existing orders"})
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.FranchiseStock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

// UpdateProductStock sets the warehouse stock level.
func (h *ProductHandler) UpdateProductStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		WarehouseStock *int `json:"warehouse_stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.WarehouseStock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "warehouse_stock is required"})
		return
	}

	var product models.Product
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	product.WarehouseStock = *req.WarehouseStock
	if err := h.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product stock updated successfully",
		"product": gin.H{
			"id":              product.ID,
			"name":            product.Name,
			"warehouse_stock": product.WarehouseStock,
		},
	})
}
