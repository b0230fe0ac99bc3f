package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	radiuspkg "github.com/Omwansam/Infora-wifi-billing/internal/radius"
	"github.com/Omwansam/Infora-wifi-billing/internal/services"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	h := NewRadiusHandler(db, services.NewAuthenticator(db, nil), services.NewAccountingTracker(db))

	app := fiber.New()
	app.Post("/api/radius/auth", h.Authenticate)
	app.Post("/api/radius/accounting", h.Accounting)
	app.Get("/api/radius/sessions", h.ListSessions)
	app.Post("/api/radius/sessions/:id/terminate", h.TerminateSession)
	return app, db
}

func seedAccount(t *testing.T, db *gorm.DB) {
	t.Helper()

	isp := models.ISP{Name: "Tenant One", Email: "ops@tenant1.example", RadiusSecret: "s3cret", IsActive: true}
	require.NoError(t, db.Create(&isp).Error)
	customer := models.Customer{
		FullName: "Alice Example",
		Email:    "alice@isp.com",
		Status:   models.CustomerStatusActive,
		ISPID:    &isp.ID,
	}
	require.NoError(t, db.Create(&customer).Error)
	device := models.MikrotikDevice{DeviceName: "core", DeviceIP: "10.0.0.5", ISPID: isp.ID, IsActive: true}
	require.NoError(t, db.Create(&device).Error)
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAuthenticateEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db)

	resp, body := postJSON(t, app, "/api/radius/auth", fiber.Map{
		"username": "alice@isp.com",
		"password": "wifi-password",
		"nas_ip":   "10.0.0.5",
		"nas_port": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["session_id"])

	raw, err := base64.StdEncoding.DecodeString(data["packet"].(string))
	require.NoError(t, err)
	packet, err := radiuspkg.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, radiuspkg.CodeAccessRequest, packet.Code)
}

func TestAuthenticateEndpointRejection(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db)

	resp, body := postJSON(t, app, "/api/radius/auth", fiber.Map{
		"username": "nobody@isp.com",
		"password": "x",
		"nas_ip":   "10.0.0.5",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "USER_NOT_FOUND", body["code"])
}

func TestAccountingEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db)

	_, authBody := postJSON(t, app, "/api/radius/auth", fiber.Map{
		"username": "alice@isp.com",
		"password": "pw",
		"nas_ip":   "10.0.0.5",
	})
	sessionID := authBody["data"].(map[string]interface{})["session_id"].(string)

	resp, body := postJSON(t, app, "/api/radius/accounting", fiber.Map{
		"session_id":    sessionID,
		"status_type":   "Stop",
		"input_octets":  1000,
		"output_octets": 2000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var session models.RadiusSession
	require.NoError(t, db.Where("session_id = ?", sessionID).First(&session).Error)
	assert.False(t, session.IsActive)
	assert.Equal(t, int64(1000), session.BytesIn)
}

func TestAccountingEndpointUnknownSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := postJSON(t, app, "/api/radius/accounting", fiber.Map{
		"session_id":  "missing",
		"status_type": "Interim-Update",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}
