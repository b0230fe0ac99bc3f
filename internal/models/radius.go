package models

import (
	"time"
)

// RadiusSession tracks one network session from Access-Request to the
// accounting Stop. session_id is unique across the whole system, not per
// tenant. is_active flips true->false exactly once; session_end is set if
// and only if is_active is false.
type RadiusSession struct {
	ID         uint `gorm:"column:id;primaryKey" json:"id"`
	ISPID      uint `gorm:"column:isp_id;not null;index" json:"isp_id"`
	CustomerID uint `gorm:"column:customer_id;not null;index" json:"customer_id"`
	DeviceID   uint `gorm:"column:mikrotik_device_id;not null" json:"mikrotik_device_id"`

	SessionID  string `gorm:"column:session_id;size:64;not null;uniqueIndex" json:"session_id"`
	Username   string `gorm:"column:username;size:120;not null;index" json:"username"`
	IPAddress  string `gorm:"column:ip_address;size:50" json:"ip_address"`
	MACAddress string `gorm:"column:mac_address;size:50" json:"mac_address"`

	SessionStart time.Time  `gorm:"column:session_start;not null" json:"session_start"`
	SessionEnd   *time.Time `gorm:"column:session_end" json:"session_end"`

	// Counters carry the absolute totals reported by the NAS, not deltas.
	BytesIn    int64 `gorm:"column:bytes_in;default:0" json:"bytes_in"`
	BytesOut   int64 `gorm:"column:bytes_out;default:0" json:"bytes_out"`
	PacketsIn  int64 `gorm:"column:packets_in;default:0" json:"packets_in"`
	PacketsOut int64 `gorm:"column:packets_out;default:0" json:"packets_out"`

	IsActive bool `gorm:"column:is_active;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// RadCheck is a FreeRADIUS check row (authentication-time condition),
// tenant- and customer-scoped.
type RadCheck struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	Username   string `gorm:"column:username;size:120;not null;index" json:"username"`
	Attribute  string `gorm:"column:attribute;size:64;not null" json:"attribute"`
	Op         string `gorm:"column:op;size:2;not null;default:'=='" json:"op"`
	Value      string `gorm:"column:value;size:253;not null" json:"value"`
	ISPID      uint   `gorm:"column:isp_id;not null;index" json:"isp_id"`
	CustomerID uint   `gorm:"column:customer_id;not null;index" json:"customer_id"`
	IsActive   bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// RadReply is a FreeRADIUS reply row (attribute returned on accept),
// tenant- and customer-scoped.
type RadReply struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	Username   string `gorm:"column:username;size:120;not null;index" json:"username"`
	Attribute  string `gorm:"column:attribute;size:64;not null" json:"attribute"`
	Op         string `gorm:"column:op;size:2;not null;default:'='" json:"op"`
	Value      string `gorm:"column:value;size:253;not null" json:"value"`
	ISPID      uint   `gorm:"column:isp_id;not null;index" json:"isp_id"`
	CustomerID uint   `gorm:"column:customer_id;not null;index" json:"customer_id"`
	IsActive   bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

// RadUserGroup maps a username to a plan group with a priority.
type RadUserGroup struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	Username   string `gorm:"column:username;size:120;not null;index" json:"username"`
	GroupName  string `gorm:"column:groupname;size:64;not null" json:"groupname"`
	Priority   int    `gorm:"column:priority;default:1" json:"priority"`
	ISPID      uint   `gorm:"column:isp_id;not null;index" json:"isp_id"`
	CustomerID uint   `gorm:"column:customer_id;not null;index" json:"customer_id"`
	IsActive   bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

func (RadiusSession) TableName() string {
	return "radius_sessions"
}

func (RadCheck) TableName() string {
	return "radcheck"
}

func (RadReply) TableName() string {
	return "radreply"
}

func (RadUserGroup) TableName() string {
	return "radusergroup"
}
