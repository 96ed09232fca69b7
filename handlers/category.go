package handlers

import (
	"net/http"

	"retailhub-backend/models"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories := []models.Category{}
	if err := h.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Category created successfully", "category": category})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category updated successfully", "category": category})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}

	// Products keep the category alive.
	var productCount int64
	h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cannot delete category with existing products"})
		return
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
}
