package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is the structured outlet address. The fields are embedded into the
// franchises table; either all of them are present or all are absent.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// IsEmpty reports whether no address field is set.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Pincode == "" && a.Country == ""
}

// IsComplete reports whether every address field is set.
func (a Address) IsComplete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Pincode != "" && a.Country != ""
}

type Franchise struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Address        Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ContactNumber  string     `json:"contact_number"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	OrderManagerID *uuid.UUID `gorm:"type:uuid;index" json:"order_manager_id,omitempty"`
	OrderManager   *User      `gorm:"foreignKey:OrderManagerID" json:"order_manager,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (f *Franchise) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
