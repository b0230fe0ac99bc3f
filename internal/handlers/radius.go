package handlers

import (
	"encoding/base64"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/middleware"
	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	radiuspkg "github.com/Omwansam/Infora-wifi-billing/internal/radius"
	"github.com/Omwansam/Infora-wifi-billing/internal/services"
)

type RadiusHandler struct {
	db            *gorm.DB
	authenticator *services.Authenticator
	accounting    *services.AccountingTracker
}

func NewRadiusHandler(db *gorm.DB, authenticator *services.Authenticator, accounting *services.AccountingTracker) *RadiusHandler {
	return &RadiusHandler{
		db:            db,
		authenticator: authenticator,
		accounting:    accounting,
	}
}

// AuthenticateRequest represents a NAS authentication request body
type AuthenticateRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	NASIP      string `json:"nas_ip" validate:"required"`
	NASPort    uint32 `json:"nas_port"`
	MACAddress string `json:"mac_address"`
}

// Authenticate runs the RADIUS authentication workflow and returns the
// session plus the encoded Access-Request payload (base64).
func (h *RadiusHandler) Authenticate(c *fiber.Ctx) error {
	var req AuthenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Username == "" || req.NASIP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "username and nas_ip are required",
		})
	}

	result, err := h.authenticator.Authenticate(c.Context(), services.AuthRequest{
		Username:   req.Username,
		Password:   req.Password,
		NASIP:      req.NASIP,
		NASPort:    req.NASPort,
		MACAddress: req.MACAddress,
	})
	if err != nil {
		var authErr *services.AuthError
		if errors.As(err, &authErr) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    authErr.Code,
				"message": authErr.Message,
			})
		}
		log.Printf("Authentication failed for %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Authentication failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer_id": result.CustomerID,
			"isp_id":      result.ISPID,
			"device_id":   result.DeviceID,
			"session_id":  result.SessionID,
			"packet":      base64.StdEncoding.EncodeToString(result.Packet),
		},
	})
}

// AccountingRequest represents a NAS accounting event body
type AccountingRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	StatusType    string `json:"status_type" validate:"required"`
	SessionTime   uint32 `json:"session_time"`
	InputOctets   int64  `json:"input_octets"`
	OutputOctets  int64  `json:"output_octets"`
	InputPackets  int64  `json:"input_packets"`
	OutputPackets int64  `json:"output_packets"`
}

// Accounting applies a Start/Interim-Update/Stop event to a session.
func (h *RadiusHandler) Accounting(c *fiber.Ctx) error {
	var req AccountingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "session_id is required",
		})
	}

	err := h.accounting.Apply(c.Context(), services.AccountingUpdate{
		SessionID:     req.SessionID,
		StatusType:    radiuspkg.ParseAcctStatusType(req.StatusType),
		SessionTime:   req.SessionTime,
		InputOctets:   req.InputOctets,
		OutputOctets:  req.OutputOctets,
		InputPackets:  req.InputPackets,
		OutputPackets: req.OutputPackets,
	})
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"code":    "SESSION_NOT_FOUND",
				"message": "session not found",
			})
		}
		log.Printf("Accounting update failed for %s: %v", req.SessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Accounting update failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Accounting update applied",
	})
}

// sessionScope restricts session queries to the operator's own tenant.
// Admin operators see every tenant.
func sessionScope(c *fiber.Ctx, db *gorm.DB) *gorm.DB {
	if ispID := middleware.GetCurrentISPID(c); ispID != nil {
		return db.Where("isp_id = ?", *ispID)
	}
	return db
}

// ListSessions returns sessions for the operator's scope, newest first.
func (h *RadiusHandler) ListSessions(c *fiber.Ctx) error {
	return h.listSessions(c, false)
}

// ListActiveSessions returns only sessions that have not ended.
func (h *RadiusHandler) ListActiveSessions(c *fiber.Ctx) error {
	return h.listSessions(c, true)
}

func (h *RadiusHandler) listSessions(c *fiber.Ctx, activeOnly bool) error {
	var sessions []models.RadiusSession
	query := sessionScope(c, h.db.Model(&models.RadiusSession{}))

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("session_start DESC").Limit(500).Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch sessions",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": sessions,
	})
}

// GetSession returns one session by database id.
func (h *RadiusHandler) GetSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid session id",
		})
	}

	var session models.RadiusSession
	if err := sessionScope(c, h.db).First(&session, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// TerminateSession applies a synthetic Stop to an active session.
func (h *RadiusHandler) TerminateSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid session id",
		})
	}

	// Scope check before the terminate call so one tenant cannot kill
	// another tenant's sessions.
	var session models.RadiusSession
	if err := sessionScope(c, h.db).First(&session, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Session not found",
		})
	}

	if err := h.accounting.Terminate(c.Context(), session.ID); err != nil {
		log.Printf("Session terminate failed for id %d: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to terminate session",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session terminated",
	})
}
