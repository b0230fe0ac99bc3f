package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
)

// Provisioner writes and retracts the FreeRADIUS check/reply/group rows
// an external authentication authority consumes. At most one active set
// of rows exists per (tenant, customer) at a time.
type Provisioner struct {
	db *gorm.DB
}

func NewProvisioner(db *gorm.DB) *Provisioner {
	return &Provisioner{db: db}
}

// WithTx returns a Provisioner bound to tx. Callers that pair a
// provisioning change with their own writes use this so both commit or
// roll back together; the inner transaction becomes a savepoint.
func (p *Provisioner) WithTx(tx *gorm.DB) *Provisioner {
	return &Provisioner{db: tx}
}

type planAttribute struct {
	Attribute string
	Op        string
	Value     string
}

// planReplyAttributes derives the reply attributes for a service plan.
// Zero-valued plan fields emit nothing.
func planReplyAttributes(plan *models.ServicePlan) []planAttribute {
	var attrs []planAttribute

	if plan.BandwidthLimit > 0 {
		// MikroTik wants bytes per second, upload/download.
		rate := int64(plan.BandwidthLimit) * 1024 * 1024
		attrs = append(attrs, planAttribute{
			Attribute: "Mikrotik-Rate-Limit",
			Op:        "=",
			Value:     fmt.Sprintf("%d/%d", rate, rate),
		})
	}

	if plan.DataLimit > 0 {
		dataBytes := int64(plan.DataLimit) * 1024 * 1024 * 1024
		attrs = append(attrs, planAttribute{
			Attribute: "Mikrotik-Data-Limit",
			Op:        "=",
			Value:     fmt.Sprintf("%d", dataBytes),
		})
	}

	if plan.StaticIP != "" {
		attrs = append(attrs, planAttribute{
			Attribute: "Framed-IP-Address",
			Op:        "=",
			Value:     plan.StaticIP,
		})
	}

	if plan.SessionTimeout > 0 {
		attrs = append(attrs, planAttribute{
			Attribute: "Session-Timeout",
			Op:        "=",
			Value:     fmt.Sprintf("%d", plan.SessionTimeout*60),
		})
	}

	if plan.IdleTimeout > 0 {
		attrs = append(attrs, planAttribute{
			Attribute: "Idle-Timeout",
			Op:        "=",
			Value:     fmt.Sprintf("%d", plan.IdleTimeout*60),
		})
	}

	return attrs
}

// Provision writes the full active row set for a customer: one
// Cleartext-Password check row, one reply row per plan attribute, and a
// plan group membership. All writes share one transaction; a failure
// rolls back the whole batch.
func (p *Provisioner) Provision(ctx context.Context, customer *models.Customer, plan *models.ServicePlan, isp *models.ISP) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return provisionTx(tx, customer, plan, isp)
	})
	if err != nil {
		return fmt.Errorf("provisioning customer %d: %w", customer.ID, err)
	}

	log.Printf("Provisioned customer %d (plan %d) for ISP %d", customer.ID, plan.ID, isp.ID)
	return nil
}

// Deprovision marks every check/reply/group row for (tenant, customer)
// inactive. Rows are kept for audit, never hard-deleted here.
func (p *Provisioner) Deprovision(ctx context.Context, customer *models.Customer, isp *models.ISP) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deprovisionTx(tx, customer, isp)
	})
	if err != nil {
		return fmt.Errorf("deprovisioning customer %d: %w", customer.ID, err)
	}

	log.Printf("Deprovisioned customer %d for ISP %d", customer.ID, isp.ID)
	return nil
}

// Reprovision retracts the old row set and writes the new one inside a
// single transaction, so no moment exists with two active sets or none
// committed halfway.
func (p *Provisioner) Reprovision(ctx context.Context, customer *models.Customer, plan *models.ServicePlan, isp *models.ISP) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deprovisionTx(tx, customer, isp); err != nil {
			return err
		}
		return provisionTx(tx, customer, plan, isp)
	})
	if err != nil {
		return fmt.Errorf("reprovisioning customer %d: %w", customer.ID, err)
	}

	log.Printf("Reprovisioned customer %d to plan %d for ISP %d", customer.ID, plan.ID, isp.ID)
	return nil
}

func provisionTx(tx *gorm.DB, customer *models.Customer, plan *models.ServicePlan, isp *models.ISP) error {
	check := models.RadCheck{
		Username:   customer.Email,
		Attribute:  "Cleartext-Password",
		Op:         "==",
		Value:      customer.PasswordHash,
		ISPID:      isp.ID,
		CustomerID: customer.ID,
		IsActive:   true,
	}
	if err := tx.Create(&check).Error; err != nil {
		return err
	}

	for _, attr := range planReplyAttributes(plan) {
		reply := models.RadReply{
			Username:   customer.Email,
			Attribute:  attr.Attribute,
			Op:         attr.Op,
			Value:      attr.Value,
			ISPID:      isp.ID,
			CustomerID: customer.ID,
			IsActive:   true,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
	}

	group := models.RadUserGroup{
		Username:   customer.Email,
		GroupName:  fmt.Sprintf("plan_%d", plan.ID),
		Priority:   1,
		ISPID:      isp.ID,
		CustomerID: customer.ID,
		IsActive:   true,
	}
	return tx.Create(&group).Error
}

func deprovisionTx(tx *gorm.DB, customer *models.Customer, isp *models.ISP) error {
	scope := "customer_id = ? AND isp_id = ?"

	if err := tx.Model(&models.RadCheck{}).
		Where(scope, customer.ID, isp.ID).
		Update("is_active", false).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.RadReply{}).
		Where(scope, customer.ID, isp.ID).
		Update("is_active", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.RadUserGroup{}).
		Where(scope, customer.ID, isp.ID).
		Update("is_active", false).Error
}
