package models

import (
	"time"

	"gorm.io/gorm"
)

// MikrotikDevice represents a NAS/router owned by a tenant. Authentication
// requests are only honored when the request's NAS-IP-Address matches a
// device of the customer's own tenant; this is the cross-tenant isolation
// boundary.
type MikrotikDevice struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	DeviceName  string `gorm:"column:device_name;size:100;not null" json:"device_name"`
	DeviceIP    string `gorm:"column:device_ip;size:50;not null;index" json:"device_ip"`
	DeviceModel string `gorm:"column:device_model;size:50" json:"device_model"`
	Location    string `gorm:"column:location;size:100" json:"location"`

	ISPID uint `gorm:"column:isp_id;not null;index" json:"isp_id"`
	ISP   *ISP `gorm:"foreignKey:ISPID" json:"isp,omitempty"`

	IsActive bool       `gorm:"column:is_active;default:true" json:"is_active"`
	LastSeen *time.Time `gorm:"column:last_seen" json:"last_seen"`

	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (MikrotikDevice) TableName() string {
	return "mikrotik_devices"
}
