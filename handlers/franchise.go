package handlers

import (
	"math"
	"net/http"
	"strconv"

	"retailhub-backend/models"
	"retailhub-backend/services"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FranchiseHandler struct {
	DB         *gorm.DB
	Assignment *services.AssignmentService
	Stats      *services.StatsService
	Orders     *services.OrderService
}

func NewFranchiseHandler(db *gorm.DB) *FranchiseHandler {
	return &FranchiseHandler{
		DB:         db,
		Assignment: services.NewAssignmentService(db),
		Stats:      services.NewStatsService(db),
		Orders:     services.NewOrderService(db),
	}
}

func (h *FranchiseHandler) CreateFranchise(c *gin.Context) {
	var req struct {
		Name          string         `json:"name" binding:"required"`
		Address       models.Address `json:"address"`
		ContactNumber string         `json:"contact_number"`
		Email         string         `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if !req.Address.IsEmpty() && !req.Address.IsComplete() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "address requires street, city, state, pincode and country together"})
		return
	}

	var existing models.Franchise
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Franchise already exists with this email"})
		return
	}

	franchise := models.Franchise{
		Name:          req.Name,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		IsActive:      true,
	}

	if err := h.DB.Create(&franchise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create franchise", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Franchise created successfully",
		"franchise": franchise,
	})
}

// ListFranchises returns all franchises, paginated and searchable. An empty
// result is a 200 with an empty list, not an error.
func (h *FranchiseHandler) ListFranchises(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Franchise{})

	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+search+"%", "%"+search+"%")
	}
	if active := c.Query("is_active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	sortBy := c.DefaultQuery("sort_by", "created_at")
	switch sortBy {
	case "name", "email", "created_at":
	default:
		sortBy = "created_at"
	}
	order := sortBy
	if c.DefaultQuery("sort_order", "desc") == "desc" {
		order += " DESC"
	}

	var total int64
	query.Count(&total)

	franchises := []models.Franchise{}
	if err := query.Preload("OrderManager").Order(order).Offset(offset).Limit(limit).Find(&franchises).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch franchises"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"franchises": franchises,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *FranchiseHandler) GetFranchise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := principalFromContext(c)
	if !p.CanAccessFranchise(id) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to view this franchise"})
		return
	}

	var franchise models.Franchise
	if err := h.DB.Preload("OrderManager").Where("id = ?", id).First(&franchise).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Franchise not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "franchise": franchise})
}

func (h *FranchiseHandler) UpdateFranchise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch services.FranchisePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	franchise, err := h.Assignment.UpdateFranchise(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Franchise updated successfully",
		"franchise": franchise,
	})
}

func (h *FranchiseHandler) DeleteFranchise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Assignment.DeleteFranchise(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Franchise deleted successfully"})
}

func (h *FranchiseHandler) AssignManager(c *gin.Context) {
	var req struct {
		FranchiseID string `json:"franchiseId" binding:"required"`
		ManagerID   string `json:"managerId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	franchiseID, err := uuid.Parse(req.FranchiseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid franchiseId"})
		return
	}
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid managerId"})
		return
	}

	franchise, err := h.Assignment.AssignManager(franchiseID, managerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"id":   franchise.ID,
		"name": franchise.Name,
	}
	if franchise.OrderManager != nil {
		resp["manager"] = gin.H{
			"id":    franchise.OrderManager.ID,
			"name":  franchise.OrderManager.Name,
			"email": franchise.OrderManager.Email,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Manager assigned to franchise successfully",
		"franchise": resp,
	})
}

func (h *FranchiseHandler) GetFranchiseOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := services.OrderFilter{
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}

	orders, franchiseName, pagination, err := h.Orders.FranchiseOrders(id, principalFromContext(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"franchise":  franchiseName,
		"orders":     orders,
		"pagination": pagination,
	})
}

func (h *FranchiseHandler) GetFranchiseStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.Stats.FranchiseStats(id, principalFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"franchise": stats.Franchise,
		"stats":     stats,
	})
}

func (h *FranchiseHandler) GetFranchiseStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := principalFromContext(c)
	if !p.CanAccessFranchise(id) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to view stock for this franchise"})
		return
	}

	var franchise models.Franchise
	if err := h.DB.Where("id = ?", id).First(&franchise).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Franchise not found"})
		return
	}

	stock := []models.FranchiseStock{}
	if err := h.DB.Preload("Product").Where("franchise_id = ?", id).Find(&stock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stock": stock})
}

// UpdateFranchiseStock upserts the stock row for one product at the outlet.
func (h *FranchiseHandler) UpdateFranchiseStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid productId"})
		return
	}

	p := principalFromContext(c)
	if !p.CanAccessFranchise(id) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to update stock for this franchise"})
		return
	}

	var req struct {
		Quantity     *int `json:"quantity"`
		ReorderLevel *int `json:"reorder_level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == nil && req.ReorderLevel == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity or reorder_level is required"})
		return
	}

	var franchise models.Franchise
	if err := h.DB.Where("id = ?", id).First(&franchise).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Franchise not found"})
		return
	}
	var product models.Product
	if err := h.DB.Where("id = ?", productID).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var fs models.FranchiseStock
	if err := h.DB.Where("franchise_id = ? AND product_id = ?", id, productID).First(&fs).Error; err != nil {
		fs = models.FranchiseStock{FranchiseID: id, ProductID: productID}
	}

	if req.Quantity != nil {
		fs.Quantity = *req.Quantity
	}
	if req.ReorderLevel != nil {
		fs.ReorderLevel = *req.ReorderLevel
	}

	if err := h.DB.Save(&fs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update stock"})
		return
	}

	h.DB.Preload("Product").First(&fs, "id = ?", fs.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock updated successfully", "stock": fs})
}
