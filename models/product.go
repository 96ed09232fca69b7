package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Description       string    `json:"description"`
	CategoryID        uuid.UUID `gorm:"type:uuid;not null" json:"category_id"`
	Category          Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price             float64   `gorm:"not null" json:"price"`
	Discount          float64   `gorm:"default:0" json:"discount"` // percentage, 0-100
	WarehouseStock    int       `gorm:"default:0" json:"warehouse_stock"`
	LowStockThreshold int       `gorm:"default:10" json:"low_stock_threshold"`
	Manufacturer      string    `json:"manufacturer"`
	Publish           bool      `gorm:"default:true" json:"publish"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice returns the price after the discount percentage is applied.
func (p *Product) EffectivePrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.Discount/100)
}
