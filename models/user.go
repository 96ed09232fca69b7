package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOrderManager Role = "orderManager"
	RoleUser         Role = "user"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOrderManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        Role       `gorm:"not null;default:user" json:"role"`
	Phone       string     `json:"phone"`
	FranchiseID *uuid.UUID `gorm:"type:uuid;index" json:"franchise_id,omitempty"` // set only while role is orderManager
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
