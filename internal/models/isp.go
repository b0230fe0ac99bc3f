package models

import (
	"time"

	"gorm.io/gorm"
)

// ISP represents a tenant of the platform. Every customer, access device
// and provisioning row is owned by exactly one ISP; the shared secret is
// the RADIUS secret used to hide passwords in packets built for its
// devices.
type ISP struct {
	ID           uint   `gorm:"column:id;primaryKey" json:"id"`
	Name         string `gorm:"column:name;size:100;not null" json:"name"`
	Email        string `gorm:"column:email;size:120;uniqueIndex" json:"email"`
	RadiusSecret string `gorm:"column:radius_secret;size:100;not null" json:"-"`
	APIKey       string `gorm:"column:api_key;size:100" json:"-"`

	// Quota limits
	MaxCustomers int `gorm:"column:max_customers;default:0" json:"max_customers"`
	MaxDevices   int `gorm:"column:max_devices;default:0" json:"max_devices"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (ISP) TableName() string {
	return "isps"
}

// SecretBytes returns the RADIUS shared secret for packet building.
func (i *ISP) SecretBytes() []byte {
	return []byte(i.RadiusSecret)
}
