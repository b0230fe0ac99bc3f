package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	mathrand "math/rand"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	radiuspkg "github.com/Omwansam/Infora-wifi-billing/internal/radius"
)

// Auth rejection codes. The NAS-facing adapter maps every one of these to
// an Access-Reject; none of them is a server error.
const (
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeNoISPAssociation = "NO_ISP_ASSOCIATION"
	CodeISPInactive      = "ISP_INACTIVE"
	CodeCustomerInactive = "CUSTOMER_INACTIVE"
	CodeDeviceNotFound   = "DEVICE_NOT_FOUND"
)

// AuthError is a structured authentication rejection with a
// machine-readable code.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// AuthRequest carries one authentication attempt from a NAS.
type AuthRequest struct {
	Username   string
	Password   string
	NASIP      string
	NASPort    uint32
	MACAddress string
}

// AuthResult is returned on a successful authentication.
type AuthResult struct {
	CustomerID uint   `json:"customer_id"`
	ISPID      uint   `json:"isp_id"`
	DeviceID   uint   `json:"device_id"`
	SessionID  string `json:"session_id"`
	Packet     []byte `json:"-"`
}

const customerCacheTTL = 5 * time.Minute

// Authenticator resolves tenant, customer and device for an inbound
// authentication attempt, persists the session and builds the
// Access-Request payload.
type Authenticator struct {
	db        *gorm.DB
	cache     *redis.Client // optional
	sessionID func(customerID uint) string
}

// NewAuthenticator creates an Authenticator. cache may be nil.
func NewAuthenticator(db *gorm.DB, cache *redis.Client) *Authenticator {
	return &Authenticator{db: db, cache: cache, sessionID: newSessionID}
}

// Authenticate runs the multi-tenant authentication workflow:
// customer -> tenant -> status -> device, then session + packet. A
// rejection is returned as *AuthError; anything else is a store failure.
func (a *Authenticator) Authenticate(ctx context.Context, req AuthRequest) (*AuthResult, error) {
	customer, err := a.findCustomer(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Code: CodeUserNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("looking up customer %q: %w", req.Username, err)
	}

	if customer.ISPID == nil {
		return nil, &AuthError{Code: CodeNoISPAssociation, Message: "customer not associated with any ISP"}
	}

	var isp models.ISP
	if err := a.db.WithContext(ctx).First(&isp, *customer.ISPID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Code: CodeISPInactive, Message: "ISP not active"}
		}
		return nil, fmt.Errorf("looking up ISP %d: %w", *customer.ISPID, err)
	}
	if !isp.IsActive {
		return nil, &AuthError{Code: CodeISPInactive, Message: "ISP not active"}
	}

	if !customer.IsActive() {
		return nil, &AuthError{Code: CodeCustomerInactive, Message: "customer account not active"}
	}

	// Cross-tenant isolation: the device must belong to the customer's
	// own tenant. An identically-addressed device under another tenant
	// never matches.
	var device models.MikrotikDevice
	err = a.db.WithContext(ctx).
		Where("device_ip = ? AND isp_id = ? AND is_active = ?", req.NASIP, isp.ID, true).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Code: CodeDeviceNotFound, Message: "device not found or not authorized"}
		}
		return nil, fmt.Errorf("looking up device %s: %w", req.NASIP, err)
	}

	clientIP := customer.Address
	if clientIP == "" {
		clientIP = "0.0.0.0"
	}
	mac := req.MACAddress
	if mac == "" {
		mac = "00:00:00:00:00:00"
	}

	var result *AuthResult
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := models.RadiusSession{
			ISPID:        isp.ID,
			CustomerID:   customer.ID,
			DeviceID:     device.ID,
			SessionID:    a.sessionID(customer.ID),
			Username:     req.Username,
			IPAddress:    clientIP,
			MACAddress:   mac,
			SessionStart: time.Now().UTC(),
			IsActive:     true,
		}
		// Postgres aborts the whole transaction on a statement error,
		// so the insert sits behind a savepoint: a unique violation
		// rolls back to it and the retry runs on a live transaction.
		if err := tx.SavePoint("session_insert").Error; err != nil {
			return err
		}
		if err := tx.Create(&session).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			if err := tx.RollbackTo("session_insert").Error; err != nil {
				return err
			}
			// Same customer, same second, same random suffix. One
			// regeneration is enough to step past it.
			session.ID = 0
			session.SessionID = a.sessionID(customer.ID)
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
		}

		packet, err := radiuspkg.BuildAccessRequest(radiuspkg.AccessRequest{
			Username:  req.Username,
			Password:  req.Password,
			NASIP:     net.ParseIP(req.NASIP),
			NASPort:   req.NASPort,
			SessionID: session.SessionID,
			Secret:    isp.SecretBytes(),
		})
		if err != nil {
			// Rolling back the transaction discards the session row;
			// no partial session survives a failed build.
			return fmt.Errorf("building access request: %w", err)
		}

		result = &AuthResult{
			CustomerID: customer.ID,
			ISPID:      isp.ID,
			DeviceID:   device.ID,
			SessionID:  session.SessionID,
			Packet:     packet.Encode(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Auth accept: user=%s isp=%d device=%s session=%s", req.Username, isp.ID, req.NASIP, result.SessionID)
	return result, nil
}

// findCustomer resolves a customer by login identity, going through the
// redis cache when one is configured.
func (a *Authenticator) findCustomer(ctx context.Context, username string) (*models.Customer, error) {
	var customer models.Customer

	if a.cache != nil {
		cacheKey := fmt.Sprintf("infora:customer:%s", username)
		if id, err := a.cache.Get(ctx, cacheKey).Uint64(); err == nil {
			if err := a.db.WithContext(ctx).First(&customer, uint(id)).Error; err == nil {
				return &customer, nil
			}
			// Stale cache entry; fall through to the lookup by email.
		}
	}

	if err := a.db.WithContext(ctx).Where("email = ?", username).First(&customer).Error; err != nil {
		return nil, err
	}

	if a.cache != nil {
		cacheKey := fmt.Sprintf("infora:customer:%s", username)
		customerID := customer.ID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			a.cache.Set(ctx, cacheKey, uint64(customerID), customerCacheTTL)
		}()
	}

	return &customer, nil
}

// newSessionID builds a globally unique session identifier:
// {customerId}_{unixTimestamp}_{4-digit-random}.
func newSessionID(customerID uint) string {
	return fmt.Sprintf("%d_%d_%d", customerID, time.Now().Unix(), 1000+mathrand.Intn(9000))
}
