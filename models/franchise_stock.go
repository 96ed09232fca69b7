package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FranchiseStock is a per-outlet stock row. Rows are owned exclusively by
// their franchise and are removed when the franchise is deleted.
type FranchiseStock struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FranchiseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_franchise_stock" json:"franchise_id"`
	Franchise    Franchise `gorm:"foreignKey:FranchiseID" json:"-"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_franchise_stock" json:"product_id"`
	Product      Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity     int       `gorm:"default:0" json:"quantity"`
	ReorderLevel int       `gorm:"default:5" json:"reorder_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (fs *FranchiseStock) BeforeCreate(tx *gorm.DB) error {
	if fs.ID == uuid.Nil {
		fs.ID = uuid.New()
	}
	return nil
}
