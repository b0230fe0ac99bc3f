package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of an operator account
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleISP   UserRole = "isp"
)

// User is an operator account for the management API. Not a subscriber;
// subscribers live in Customer.
type User struct {
	ID           uint     `gorm:"column:id;primaryKey" json:"id"`
	Email        string   `gorm:"column:email;size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"column:password_hash;size:255;not null" json:"-"`
	FullName     string   `gorm:"column:full_name;size:100" json:"full_name"`
	Role         UserRole `gorm:"column:role;size:20;default:isp" json:"role"`

	// ISP operators are scoped to their tenant; admins have ISPID nil.
	ISPID *uint `gorm:"column:isp_id;index" json:"isp_id"`
	ISP   *ISP  `gorm:"foreignKey:ISPID" json:"isp,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
