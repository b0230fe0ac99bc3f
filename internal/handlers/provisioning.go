package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/database"
	"github.com/Omwansam/Infora-wifi-billing/internal/middleware"
	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	"github.com/Omwansam/Infora-wifi-billing/internal/services"
)

type ProvisioningHandler struct {
	db          *gorm.DB
	provisioner *services.Provisioner
}

func NewProvisioningHandler(db *gorm.DB, provisioner *services.Provisioner) *ProvisioningHandler {
	return &ProvisioningHandler{db: db, provisioner: provisioner}
}

// loadCustomer fetches a customer within the operator's tenant scope,
// together with its ISP.
func (h *ProvisioningHandler) loadCustomer(c *fiber.Ctx) (*models.Customer, *models.ISP, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
	}

	query := h.db.Model(&models.Customer{})
	if ispID := middleware.GetCurrentISPID(c); ispID != nil {
		query = query.Where("isp_id = ?", *ispID)
	}

	var customer models.Customer
	if err := query.First(&customer, id).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	if customer.ISPID == nil {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Customer has no ISP association")
	}

	var isp models.ISP
	if err := h.db.First(&isp, *customer.ISPID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Customer's ISP not found")
	}

	return &customer, &isp, nil
}

// AssignPlanRequest represents a plan assignment body
type AssignPlanRequest struct {
	PlanID uint `json:"plan_id" validate:"required"`
}

// AssignPlan moves a customer onto a service plan and rewrites the
// customer's RADIUS attribute rows in one step.
func (h *ProvisioningHandler) AssignPlan(c *fiber.Ctx) error {
	customer, isp, err := h.loadCustomer(c)
	if err != nil {
		return err
	}

	var req AssignPlanRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "plan_id is required",
		})
	}

	var plan models.ServicePlan
	if err := h.db.Where("is_active = ?", true).First(&plan, req.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Service plan not found",
		})
	}

	// The attribute rows and the customer's plan reference change
	// together or not at all.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.provisioner.WithTx(tx).Reprovision(c.Context(), customer, &plan, isp); err != nil {
			return err
		}
		return tx.Model(customer).Update("service_plan_id", plan.ID).Error
	})
	if err != nil {
		log.Printf("Plan assignment failed for customer %d: %v", customer.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to provision customer",
		})
	}

	database.InvalidateCustomerCache(customer.Email)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plan assigned and customer provisioned",
	})
}

// Suspend deactivates a customer's RADIUS rows and marks the account
// suspended. Sessions already established keep running until the NAS
// drops them.
func (h *ProvisioningHandler) Suspend(c *fiber.Ctx) error {
	customer, isp, err := h.loadCustomer(c)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.provisioner.WithTx(tx).Deprovision(c.Context(), customer, isp); err != nil {
			return err
		}
		return tx.Model(customer).Update("status", models.CustomerStatusSuspended).Error
	})
	if err != nil {
		log.Printf("Suspend failed for customer %d: %v", customer.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to deprovision customer",
		})
	}

	database.InvalidateCustomerCache(customer.Email)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Customer suspended",
	})
}

// Reactivate re-provisions a suspended customer on their current plan.
func (h *ProvisioningHandler) Reactivate(c *fiber.Ctx) error {
	customer, isp, err := h.loadCustomer(c)
	if err != nil {
		return err
	}

	if customer.ServicePlanID == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Customer has no service plan",
		})
	}

	var plan models.ServicePlan
	if err := h.db.First(&plan, *customer.ServicePlanID).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Customer's service plan not found",
		})
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.provisioner.WithTx(tx).Reprovision(c.Context(), customer, &plan, isp); err != nil {
			return err
		}
		return tx.Model(customer).Update("status", models.CustomerStatusActive).Error
	})
	if err != nil {
		log.Printf("Reactivate failed for customer %d: %v", customer.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to provision customer",
		})
	}

	database.InvalidateCustomerCache(customer.Email)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Customer reactivated",
	})
}
