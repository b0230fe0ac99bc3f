package services

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Omwansam/Infora-wifi-billing/internal/models"
)

// StaleSessionCleanupService periodically closes radius sessions that
// stopped producing accounting traffic. NAS devices drop Stop packets in
// the field; without this sweep, ghost sessions stay active forever.
type StaleSessionCleanupService struct {
	db             *gorm.DB
	staleThreshold time.Duration
	checkInterval  time.Duration
	stopChan       chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	isRunning      bool
}

// NewStaleSessionCleanupService creates the sweeper. staleMinutes is how
// long a session may go without an accounting update before it is closed.
func NewStaleSessionCleanupService(db *gorm.DB, staleMinutes int) *StaleSessionCleanupService {
	if staleMinutes <= 0 {
		staleMinutes = 30
	}
	return &StaleSessionCleanupService{
		db:             db,
		staleThreshold: time.Duration(staleMinutes) * time.Minute,
		checkInterval:  5 * time.Minute,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the cleanup loop.
func (s *StaleSessionCleanupService) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()

	log.Printf("StaleSessionCleanupService started (threshold: %v, interval: %v)",
		s.staleThreshold, s.checkInterval)
}

// Stop stops the cleanup loop and waits for it to finish.
func (s *StaleSessionCleanupService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	log.Println("StaleSessionCleanupService stopped")
}

func (s *StaleSessionCleanupService) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := s.cleanupOnce(); err != nil {
				log.Printf("Stale session cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("Closed %d stale sessions", n)
			}
		case <-s.stopChan:
			return
		}
	}
}

// cleanupOnce closes every active session whose last accounting update is
// older than the threshold. The close is a synthetic Stop: session_end is
// set to the time of the last update rather than now, so usage reports do
// not credit dead air.
func (s *StaleSessionCleanupService) cleanupOnce() (int64, error) {
	cutoff := time.Now().UTC().Add(-s.staleThreshold)

	var stale []models.RadiusSession
	if err := s.db.
		Where("is_active = ? AND updated_at < ?", true, cutoff).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	var closed int64
	for _, session := range stale {
		end := session.UpdatedAt
		err := s.db.Model(&models.RadiusSession{}).
			Where("id = ? AND is_active = ?", session.ID, true).
			Updates(map[string]interface{}{
				"is_active":   false,
				"session_end": end,
			}).Error
		if err != nil {
			return closed, err
		}
		closed++
	}

	return closed, nil
}
