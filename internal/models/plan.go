package models

import (
	"time"

	"gorm.io/gorm"
)

// ServicePlan represents an internet package. The quota fields feed the
// RADIUS attribute provisioner: zero means the attribute is not emitted.
type ServicePlan struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;size:100;not null" json:"name"`
	Description string  `gorm:"column:description;size:255" json:"description"`
	Price       float64 `gorm:"column:price;type:decimal(10,2);not null" json:"price"`

	BandwidthLimit int    `gorm:"column:bandwidth_limit;default:0" json:"bandwidth_limit"` // MB per second, 0 = unlimited
	DataLimit      int    `gorm:"column:data_limit;default:0" json:"data_limit"`           // GB, 0 = unlimited
	StaticIP       string `gorm:"column:static_ip;size:50" json:"static_ip"`
	SessionTimeout int    `gorm:"column:session_timeout;default:0" json:"session_timeout"` // minutes, 0 = none
	IdleTimeout    int    `gorm:"column:idle_timeout;default:0" json:"idle_timeout"`       // minutes, 0 = none

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (ServicePlan) TableName() string {
	return "service_plans"
}
