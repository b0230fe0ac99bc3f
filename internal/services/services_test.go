package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

type fixture struct {
	isp      models.ISP
	customer models.Customer
	plan     models.ServicePlan
	device   models.MikrotikDevice
}

// seedTenant creates one active ISP with one active customer, plan and
// device. Tests mutate the returned rows as needed.
func seedTenant(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		isp: models.ISP{
			Name:         "Tenant One",
			Email:        "ops@tenant1.example",
			RadiusSecret: "tenant1-secret",
			IsActive:     true,
		},
		plan: models.ServicePlan{
			Name:           "Home 100",
			Price:          29.99,
			BandwidthLimit: 100,
			DataLimit:      500,
			SessionTimeout: 60,
			IdleTimeout:    15,
			IsActive:       true,
		},
	}
	require.NoError(t, db.Create(&f.isp).Error)
	require.NoError(t, db.Create(&f.plan).Error)

	f.customer = models.Customer{
		FullName:      "Alice Example",
		Email:         "alice@isp.com",
		Address:       "192.168.50.10",
		PasswordHash:  "secret-pw",
		Status:        models.CustomerStatusActive,
		ISPID:         &f.isp.ID,
		ServicePlanID: &f.plan.ID,
	}
	require.NoError(t, db.Create(&f.customer).Error)

	f.device = models.MikrotikDevice{
		DeviceName: "core-router",
		DeviceIP:   "10.0.0.5",
		ISPID:      f.isp.ID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&f.device).Error)

	return f
}
