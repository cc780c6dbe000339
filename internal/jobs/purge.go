// Package jobs holds the background maintenance loops.
package jobs

import (
	"context"
	"log"
	"time"
)

type PurgeStore interface {
	DeleteExpiredRefreshSessions(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredPasswordResetTokens(ctx context.Context, before time.Time) (int64, error)
}

// Purger deletes refresh sessions and reset tokens past their expiry. Expired
// rows are already unusable; the purge only keeps the tables from growing.
type Purger struct {
	store    PurgeStore
	interval time.Duration
	timeout  time.Duration
}

func NewPurger(store PurgeStore, interval, timeout time.Duration) *Purger {
	return &Purger{store: store, interval: interval, timeout: timeout}
}

// Run blocks until ctx is cancelled, purging once per interval.
func (p *Purger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.purge(ctx)
		}
	}
}

func (p *Purger) purge(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	now := time.Now().UTC()
	sessions, err := p.store.DeleteExpiredRefreshSessions(ctx, now)
	if err != nil {
		log.Printf("purge refresh sessions: %v", err)
		return
	}
	tokens, err := p.store.DeleteExpiredPasswordResetTokens(ctx, now)
	if err != nil {
		log.Printf("purge reset tokens: %v", err)
		return
	}
	if sessions > 0 || tokens > 0 {
		log.Printf("purged %d refresh sessions, %d reset tokens", sessions, tokens)
	}
}
