package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	StatusPending    DeliveryStatus = "pending"
	StatusAccepted   DeliveryStatus = "accepted"
	StatusDispatched DeliveryStatus = "dispatched"
	StatusShipped    DeliveryStatus = "shipped"
	StatusDelivered  DeliveryStatus = "delivered"
	StatusCancelled  DeliveryStatus = "cancelled"
)

// DeliveryStatuses lists every known status in lifecycle order.
var DeliveryStatuses = []DeliveryStatus{
	StatusPending,
	StatusAccepted,
	StatusDispatched,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

type Order struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	FranchiseID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"franchise_id"`
	Franchise       Franchise      `gorm:"foreignKey:FranchiseID" json:"-"`
	Quantity        int            `gorm:"not null;default:1" json:"quantity"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryStatus  DeliveryStatus `gorm:"not null;default:pending" json:"delivery_status"`
	PaymentStatus   string         `gorm:"default:pending" json:"payment_status"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD" + time.Now().Format("20060102150405") + o.ID.String()[:8]
	}
	return nil
}

// AllowedTransitions defines the order status state machine. The lifecycle
// advances monotonically; delivered and cancelled are terminal.
var AllowedTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to DeliveryStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
