package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"retailhub-backend/models"
	"retailhub-backend/services"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{DB: db, Orders: services.NewOrderService(db)}
}

// CreateOrder places an order for the authenticated user against a published
// product and an active franchise. The total is the discounted product price
// times the quantity; payment capture happens elsewhere.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		ProductID       string `json:"product_id" binding:"required"`
		FranchiseID     string `json:"franchise_id" binding:"required"`
		Quantity        int    `json:"quantity"`
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		PaymentStatus   string `json:"payment_status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product_id"})
		return
	}
	franchiseID, err := uuid.Parse(req.FranchiseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid franchise_id"})
		return
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var product models.Product
	if err := h.DB.Where("id = ? AND publish = ?", productID, true).First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var franchise models.Franchise
	if err := h.DB.Where("id = ? AND is_active = ?", franchiseID, true).First(&franchise).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Franchise not found"})
		return
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "pending"
	}

	order := models.Order{
		UserID:          userID.(uuid.UUID),
		ProductID:       productID,
		FranchiseID:     franchiseID,
		Quantity:        quantity,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryStatus:  models.StatusPending,
		PaymentStatus:   paymentStatus,
		TotalAmount:     product.EffectivePrice() * float64(quantity),
	}

	if err := h.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	h.DB.Preload("Product").First(&order, "id = ?", order.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order placed successfully", "order": order})
}

// GetOrders is the admin-wide listing with the same filter surface as the
// per-franchise endpoint, optionally narrowed by franchise_id.
func (h *OrderHandler) GetOrders(c *gin.Context) {
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

	var franchiseID *uuid.UUID
	if fid := c.Query("franchise_id"); fid != "" {
		id, err := uuid.Parse(fid)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid franchise_id"})
			return
		}
		franchiseID = &id
	}

	orders, pagination, err := h.Orders.AllOrders(franchiseID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "pagination": pagination})
}

// GetOrder returns one order, visible to admins, the ordering user, and the
// franchise's assigned manager.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := principalFromContext(c)

	query := h.DB.Preload("User").Preload("Product").Where("id = ?", id)
	switch p.Role {
	case models.RoleAdmin:
	case models.RoleOrderManager:
		if p.FranchiseID == nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "No franchise associated with this account"})
			return
		}
		query = query.Where("franchise_id = ?", p.FranchiseID)
	default:
		query = query.Where("user_id = ?", p.UserID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// UpdateOrderStatus advances the delivery status through the state machine.
// Managers may only touch their own franchise's orders.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.DeliveryStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	p := principalFromContext(c)

	query := h.DB.Where("id = ?", id)
	if p.Role == models.RoleOrderManager {
		if p.FranchiseID == nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "No franchise associated with this account"})
			return
		}
		query = query.Where("franchise_id = ?", p.FranchiseID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if !models.IsValidTransition(order.DeliveryStatus, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.DeliveryStatus, req.Status),
		})
		return
	}

	order.DeliveryStatus = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update order status"})
		return
	}

	h.DB.Preload("User").Preload("Product").First(&order, "id = ?", order.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated successfully", "order": order})
}
