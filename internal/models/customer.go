package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerStatus represents the status of a customer account
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusSuspended CustomerStatus = "suspended"
	CustomerStatusPending   CustomerStatus = "pending"
)

// Customer represents a subscriber. The email doubles as the RADIUS
// login identity (User-Name).
type Customer struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	FullName     string         `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email        string         `gorm:"column:email;size:120;uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"column:phone;size:20" json:"phone"`
	Address      string         `gorm:"column:address;size:255" json:"address"`
	PasswordHash string         `gorm:"column:password_hash;size:255" json:"-"`
	Status       CustomerStatus `gorm:"column:status;size:20;default:active" json:"status"`
	Balance      float64        `gorm:"column:balance;type:decimal(10,2);default:0" json:"balance"`

	// Ownership & plan
	ISPID         *uint        `gorm:"column:isp_id;index" json:"isp_id"`
	ISP           *ISP         `gorm:"foreignKey:ISPID" json:"isp,omitempty"`
	ServicePlanID *uint        `gorm:"column:service_plan_id" json:"service_plan_id"`
	ServicePlan   *ServicePlan `gorm:"foreignKey:ServicePlanID" json:"service_plan,omitempty"`

	JoinDate  time.Time      `gorm:"column:join_date;autoCreateTime" json:"join_date"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// IsActive reports whether the customer may authenticate.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
