package handlers

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Omwansam/Infora-wifi-billing/internal/config"
	"github.com/Omwansam/Infora-wifi-billing/internal/database"
	"github.com/Omwansam/Infora-wifi-billing/internal/middleware"
	"github.com/Omwansam/Infora-wifi-billing/internal/models"
)

const maxLoginAttempts = 5

// LoginAttempt tracks failed login attempts
type LoginAttempt struct {
	Count     int
	LastTry   time.Time
	BlockedAt *time.Time
}

var (
	loginAttempts = make(map[string]*LoginAttempt)
	attemptsMutex sync.RWMutex
)

// isIPBlocked checks if IP has too many failed attempts
func isIPBlocked(ip string) (bool, int) {
	attemptsMutex.RLock()
	attempt, exists := loginAttempts[ip]
	attemptsMutex.RUnlock()

	if !exists {
		return false, 0
	}

	blockDuration := 15 * time.Minute

	if attempt.BlockedAt != nil {
		if time.Since(*attempt.BlockedAt) < blockDuration {
			remaining := int(blockDuration.Minutes() - time.Since(*attempt.BlockedAt).Minutes())
			return true, remaining
		}
		// Block expired, reset
		attemptsMutex.Lock()
		delete(loginAttempts, ip)
		attemptsMutex.Unlock()
		return false, 0
	}

	// Reset after 15 minutes of no attempts
	if time.Since(attempt.LastTry) > blockDuration {
		attemptsMutex.Lock()
		delete(loginAttempts, ip)
		attemptsMutex.Unlock()
		return false, 0
	}

	return attempt.Count >= maxLoginAttempts, 0
}

// recordFailedAttempt records a failed login attempt
func recordFailedAttempt(ip string) int {
	attemptsMutex.Lock()
	defer attemptsMutex.Unlock()

	if _, exists := loginAttempts[ip]; !exists {
		loginAttempts[ip] = &LoginAttempt{Count: 0}
	}

	loginAttempts[ip].Count++
	loginAttempts[ip].LastTry = time.Now()

	if loginAttempts[ip].Count >= maxLoginAttempts {
		now := time.Now()
		loginAttempts[ip].BlockedAt = &now
	}

	return maxLoginAttempts - loginAttempts[ip].Count
}

// clearFailedAttempts clears failed attempts on successful login
func clearFailedAttempts(ip string) {
	attemptsMutex.Lock()
	defer attemptsMutex.Unlock()
	delete(loginAttempts, ip)
}

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Token   string    `json:"token,omitempty"`
	User    *UserInfo `json:"user,omitempty"`
}

// UserInfo represents user info in response
type UserInfo struct {
	ID       uint            `json:"id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
	ISPID    *uint           `json:"isp_id,omitempty"`
}

// Login handles operator login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	clientIP := c.IP()

	if blocked, remaining := isIPBlocked(clientIP); blocked {
		return c.Status(fiber.StatusTooManyRequests).JSON(LoginResponse{
			Success: false,
			Message: "Too many failed login attempts. Please try again in " + strconv.Itoa(remaining) + " minutes",
		})
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(LoginResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(LoginResponse{
			Success: false,
			Message: "Email and password are required",
		})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		remaining := recordFailedAttempt(clientIP)
		msg := "Invalid email or password"
		if remaining > 0 {
			msg += ". " + strconv.Itoa(remaining) + " attempts remaining"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(LoginResponse{
			Success: false,
			Message: msg,
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(LoginResponse{
			Success: false,
			Message: "Account is disabled",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		remaining := recordFailedAttempt(clientIP)
		msg := "Invalid email or password"
		if remaining > 0 {
			msg += ". " + strconv.Itoa(remaining) + " attempts remaining"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(LoginResponse{
			Success: false,
			Message: msg,
		})
	}

	clearFailedAttempts(clientIP)

	token, err := middleware.GenerateToken(&user, h.cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(LoginResponse{
			Success: false,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(LoginResponse{
		Success: true,
		Token:   token,
		User: &UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
			ISPID:    user.ISPID,
		},
	})
}

// Logout revokes the presented token until its natural expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	if jti != "" {
		ttl := time.Duration(h.cfg.JWTExpireHours) * time.Hour
		if expiry, ok := c.Locals("tokenExpiry").(time.Time); ok {
			ttl = time.Until(expiry)
		}
		if err := database.BlacklistToken(jti, ttl); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to revoke token",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns current user info
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"full_name":  user.FullName,
			"role":       user.Role,
			"isp_id":     user.ISPID,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
		},
	})
}
