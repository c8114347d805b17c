package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/roster/internal/models"
)

const (
	DefaultThreshold = 5
	DefaultWindow    = 30 * time.Minute
)

var (
	// ErrLimitExceeded rejects an attempt before credentials are checked
	ErrLimitExceeded = fmt.Errorf("%w: please try again later", models.ErrTooManyAttempts)

	// ErrLimitReached is returned when a failed attempt used up the last slot
	ErrLimitReached = fmt.Errorf("%w: attempt limit reached, please try again later", models.ErrTooManyAttempts)
)

// Config holds the guard's limits
type Config struct {
	Threshold int           // Attempts allowed per window
	Window    time.Duration // Window length, measured from the first attempt
}

// AttemptRecord tracks attempts for one identifier in the current window
type AttemptRecord struct {
	Count       int
	WindowStart time.Time
}

// Attempt describes the outcome of the pre-verification check
type Attempt struct {
	Allowed bool
	Number  int
}

// VerifyFunc checks credentials; attempt is the 1-based attempt number in the window
type VerifyFunc func(ctx context.Context, attempt int) (bool, error)

// Guard throttles login attempts per identifier within a window.
// It is safe for concurrent use.
type Guard struct {
	mu      sync.Mutex
	records map[string]*AttemptRecord
	config  Config
	now     func() time.Time
	logger  *slog.Logger
}

// NewGuard creates a Guard. Zero config values fall back to the defaults.
func NewGuard(config Config, logger *slog.Logger) *Guard {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.Window <= 0 {
		config.Window = DefaultWindow
	}

	return &Guard{
		records: make(map[string]*AttemptRecord),
		config:  config,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the time source
func (g *Guard) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// CheckAndRecordAttempt opens or resets the identifier's window, rejects the
// attempt when the threshold is already used up, and otherwise consumes one slot.
func (g *Guard) CheckAndRecordAttempt(identifier string) (Attempt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	record, ok := g.records[identifier]
	if !ok || record.WindowStart.Before(now.Add(-g.config.Window)) {
		record = &AttemptRecord{WindowStart: now}
		g.records[identifier] = record
	}

	if record.Count >= g.config.Threshold {
		return Attempt{Allowed: false, Number: record.Count}, ErrLimitExceeded
	}

	record.Count++
	return Attempt{Allowed: true, Number: record.Count}, nil
}

// RecordResult closes out an attempt. Success clears the identifier's record.
// Failure returns ErrLimitReached once the threshold is hit, else ErrInvalidCredentials.
func (g *Guard) RecordResult(identifier string, success bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if success {
		delete(g.records, identifier)
		return nil
	}

	record, ok := g.records[identifier]
	if ok && record.Count >= g.config.Threshold {
		return ErrLimitReached
	}
	return models.ErrInvalidCredentials
}

// Attempt brackets verify with CheckAndRecordAttempt and RecordResult.
// The lock is not held while verify runs. An error from verify is returned
// as is and still counts against the budget.
func (g *Guard) Attempt(ctx context.Context, identifier string, verify VerifyFunc) error {
	attempt, err := g.CheckAndRecordAttempt(identifier)
	if err != nil {
		g.logger.Warn("login attempt rejected",
			slog.String("reason", "threshold_exceeded"),
			slog.Int("attempts", attempt.Number))
		return err
	}

	ok, err := verify(ctx, attempt.Number)
	if err != nil {
		return err
	}

	if err := g.RecordResult(identifier, ok); err != nil {
		g.logger.Info("login attempt failed", slog.Int("attempt", attempt.Number), slog.Any("error", err))
		return err
	}
	return nil
}

// Snapshot returns a copy of the identifier's record, if any
func (g *Guard) Snapshot(identifier string) (AttemptRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	record, ok := g.records[identifier]
	if !ok {
		return AttemptRecord{}, false
	}
	return *record, true
}

// Sweep removes records whose window has expired and returns how many were dropped
func (g *Guard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.config.Window)
	removed := 0
	for identifier, record := range g.records {
		if record.WindowStart.Before(cutoff) {
			delete(g.records, identifier)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked identifiers
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}
