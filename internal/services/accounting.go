package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	radiuspkg "github.com/Omwansam/Infora-wifi-billing/internal/radius"
)

// ErrSessionNotFound is returned for accounting updates on an unknown
// session id. Callers treat it as a no-op, not an escalation: late
// packets for dead sessions are a fact of life with NAS devices.
var ErrSessionNotFound = errors.New("session not found")

// AccountingUpdate carries one Start/Interim-Update/Stop event.
type AccountingUpdate struct {
	SessionID     string
	StatusType    radiuspkg.AcctStatusType
	SessionTime   uint32
	InputOctets   int64
	OutputOctets  int64
	InputPackets  int64
	OutputPackets int64
}

// AccountingTracker applies accounting events to session rows.
type AccountingTracker struct {
	db *gorm.DB
}

func NewAccountingTracker(db *gorm.DB) *AccountingTracker {
	return &AccountingTracker{db: db}
}

// Apply updates the session named by the event. Counters are absolute
// totals from the NAS and always overwrite what is stored; a lower value
// than a previous update is accepted as-is. A Stop event sets session_end
// and flips is_active exactly once; a second Stop only refreshes the
// counters.
func (t *AccountingTracker) Apply(ctx context.Context, update AccountingUpdate) error {
	var session models.RadiusSession
	if err := t.db.WithContext(ctx).Where("session_id = ?", update.SessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, update.SessionID)
		}
		return fmt.Errorf("looking up session %s: %w", update.SessionID, err)
	}

	updates := map[string]interface{}{
		"bytes_in":    update.InputOctets,
		"bytes_out":   update.OutputOctets,
		"packets_in":  update.InputPackets,
		"packets_out": update.OutputPackets,
	}

	if update.StatusType == radiuspkg.AcctStatusStop && session.IsActive {
		updates["session_end"] = time.Now().UTC()
		updates["is_active"] = false
	}

	if err := t.db.WithContext(ctx).Model(&session).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating session %s: %w", update.SessionID, err)
	}

	log.Printf("Acct %s: session=%s in=%d out=%d uptime=%ds",
		update.StatusType, update.SessionID, update.InputOctets, update.OutputOctets, update.SessionTime)
	return nil
}

// Terminate applies a synthetic Stop to a session by database id,
// keeping the counters it last reported. Used by the operator API.
func (t *AccountingTracker) Terminate(ctx context.Context, id uint) error {
	var session models.RadiusSession
	if err := t.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrSessionNotFound, id)
		}
		return fmt.Errorf("looking up session %d: %w", id, err)
	}

	return t.Apply(ctx, AccountingUpdate{
		SessionID:     session.SessionID,
		StatusType:    radiuspkg.AcctStatusStop,
		InputOctets:   session.BytesIn,
		OutputOctets:  session.BytesOut,
		InputPackets:  session.PacketsIn,
		OutputPackets: session.PacketsOut,
	})
}
