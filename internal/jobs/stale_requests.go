package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pvestal/vacavibes/internal/db"
	"github.com/pvestal/vacavibes/internal/email"
)

// StaleRequestReminder periodically nudges recipients about pending link
// requests that have gone unanswered.
type StaleRequestReminder struct {
	db       *db.DB
	notifier *email.Notifier
	interval time.Duration
	maxAge   time.Duration

	// reminded tracks edges already nudged so a slow recipient is not
	// emailed on every tick.
	reminded map[uuid.UUID]time.Time
}

// NewStaleRequestReminder creates a new reminder job.
func NewStaleRequestReminder(database *db.DB, notifier *email.Notifier, interval, maxAge time.Duration) *StaleRequestReminder {
	return &StaleRequestReminder{
		db:       database,
		notifier: notifier,
		interval: interval,
		maxAge:   maxAge,
		reminded: make(map[uuid.UUID]time.Time),
	}
}

// Start begins the background reminder loop.
func (r *StaleRequestReminder) Start(ctx context.Context) {
	log.Printf("Stale request reminder started (interval: %v, maxAge: %v)", r.interval, r.maxAge)

	// Run immediately on start
	r.remindAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stale request reminder stopped")
			return
		case <-ticker.C:
			r.remindAll(ctx)
		}
	}
}

// remindAll sends at most one reminder per stale edge per maxAge window.
func (r *StaleRequestReminder) remindAll(ctx context.Context) {
	stale, err := r.db.GetStaleRequests(ctx, r.maxAge, 50)
	if err != nil {
		log.Printf("Stale request reminder: failed to get requests: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	now := time.Now()
	sent := 0
	for _, req := range stale {
		if last, ok := r.reminded[req.EdgeID]; ok && now.Sub(last) < r.maxAge {
			continue
		}

		r.notifier.StaleRequestReminder(req.RecipientName, req.RecipientEmail, req.RequesterName, req.CreatedAt)
		r.reminded[req.EdgeID] = now
		sent++
	}

	// Drop entries for edges that are no longer stale (answered or deleted).
	current := make(map[uuid.UUID]bool, len(stale))
	for _, req := range stale {
		current[req.EdgeID] = true
	}
	for id := range r.reminded {
		if !current[id] {
			delete(r.reminded, id)
		}
	}

	if sent > 0 {
		log.Printf("Stale request reminder: nudged %d recipients", sent)
	}
}
