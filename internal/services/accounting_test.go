package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	radiuspkg "github.com/Omwansam/Infora-wifi-billing/internal/radius"
)

func seedSession(t *testing.T, db *gorm.DB, f fixture) models.RadiusSession {
	t.Helper()
	session := models.RadiusSession{
		ISPID:        f.isp.ID,
		CustomerID:   f.customer.ID,
		DeviceID:     f.device.ID,
		SessionID:    "1_1700000000_1234",
		Username:     f.customer.Email,
		IPAddress:    "192.168.50.10",
		MACAddress:   "aa:bb:cc:dd:ee:ff",
		SessionStart: time.Now().UTC(),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func TestAccountingLifecycle(t *testing.T) {
	db := newTestDB(t)
	f := seedTenant(t, db)
	session := seedSession(t, db, f)
	tracker := NewAccountingTracker(db)
	ctx := context.Background()

	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:    session.SessionID,
		StatusType:   radiuspkg.AcctStatusInterimUpdate,
		SessionTime:  300,
		InputOctets:  1024,
		OutputOctets: 4096,
		InputPackets: 10, OutputPackets: 40,
	}))

	var got models.RadiusSession
	require.NoError(t, db.First(&got, session.ID).Error)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.SessionEnd)
	assert.Equal(t, int64(1024), got.BytesIn)
	assert.Equal(t, int64(4096), got.BytesOut)
	assert.Equal(t, int64(10), got.PacketsIn)
	assert.Equal(t, int64(40), got.PacketsOut)

	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:    session.SessionID,
		StatusType:   radiuspkg.AcctStatusStop,
		SessionTime:  600,
		InputOctets:  2048,
		OutputOctets: 8192,
	}))

	require.NoError(t, db.First(&got, session.ID).Error)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.SessionEnd)
	assert.Equal(t, int64(2048), got.BytesIn)
	assert.Equal(t, int64(8192), got.BytesOut)
}

// Counters are absolute NAS totals. A value lower than a previous update
// is stored as-is, not rejected.
func TestAccountingCountersOverwrite(t *testing.T) {
	db := newTestDB(t)
	f := seedTenant(t, db)
	session := seedSession(t, db, f)
	tracker := NewAccountingTracker(db)
	ctx := context.Background()

	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:   session.SessionID,
		StatusType:  radiuspkg.AcctStatusInterimUpdate,
		InputOctets: 9000, OutputOctets: 9000,
	}))
	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:   session.SessionID,
		StatusType:  radiuspkg.AcctStatusInterimUpdate,
		InputOctets: 100, OutputOctets: 200,
	}))

	var got models.RadiusSession
	require.NoError(t, db.First(&got, session.ID).Error)
	assert.Equal(t, int64(100), got.BytesIn)
	assert.Equal(t, int64(200), got.BytesOut)
}

func TestAccountingDoubleStop(t *testing.T) {
	db := newTestDB(t)
	f := seedTenant(t, db)
	session := seedSession(t, db, f)
	tracker := NewAccountingTracker(db)
	ctx := context.Background()

	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:  session.SessionID,
		StatusType: radiuspkg.AcctStatusStop,
	}))

	var first models.RadiusSession
	require.NoError(t, db.First(&first, session.ID).Error)
	require.NotNil(t, first.SessionEnd)
	firstEnd := *first.SessionEnd

	time.Sleep(5 * time.Millisecond)

	// A retransmitted Stop refreshes counters but keeps the original end.
	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:   session.SessionID,
		StatusType:  radiuspkg.AcctStatusStop,
		InputOctets: 777,
	}))

	var second models.RadiusSession
	require.NoError(t, db.First(&second, session.ID).Error)
	require.NotNil(t, second.SessionEnd)
	assert.True(t, firstEnd.Equal(*second.SessionEnd), "retransmitted Stop must not move session_end")
	assert.False(t, second.IsActive)
	assert.Equal(t, int64(777), second.BytesIn)
}

func TestAccountingUnknownSession(t *testing.T) {
	db := newTestDB(t)
	tracker := NewAccountingTracker(db)

	err := tracker.Apply(context.Background(), AccountingUpdate{
		SessionID:  "no_such_session",
		StatusType: radiuspkg.AcctStatusInterimUpdate,
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTerminateKeepsLastCounters(t *testing.T) {
	db := newTestDB(t)
	f := seedTenant(t, db)
	session := seedSession(t, db, f)
	tracker := NewAccountingTracker(db)
	ctx := context.Background()

	require.NoError(t, tracker.Apply(ctx, AccountingUpdate{
		SessionID:   session.SessionID,
		StatusType:  radiuspkg.AcctStatusInterimUpdate,
		InputOctets: 5555, OutputOctets: 6666,
	}))

	require.NoError(t, tracker.Terminate(ctx, session.ID))

	var got models.RadiusSession
	require.NoError(t, db.First(&got, session.ID).Error)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.SessionEnd)
	assert.Equal(t, int64(5555), got.BytesIn)
	assert.Equal(t, int64(6666), got.BytesOut)

	require.ErrorIs(t, tracker.Terminate(ctx, 99999), ErrSessionNotFound)
}
