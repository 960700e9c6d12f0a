package session

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

// CleanupIdleSessions deletes sessions that are past their expiry or have not
// been visited within idleTimeout. Individual deletion failures are logged and
// skipped so one bad record does not stall the sweep.
func (m *Manager) CleanupIdleSessions(ctx context.Context, idleTimeout time.Duration) error {
	sessions, err := m.sessions.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	now := time.Now()
	removed := 0
	for _, s := range sessions {
		if !s.Expired(now) && now.Sub(s.LastVisited) < idleTimeout {
			continue
		}

		if err := m.sessions.DeleteSession(ctx, s.ID); err != nil {
			slogctx.Warn(ctx, "Could not delete idle session", "session_id", s.ID, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slogctx.Info(ctx, "Removed idle sessions", "count", removed)
	}

	return nil
}

// PurgeExpiredTickets drops ticket claims whose retention window has passed.
func (m *Manager) PurgeExpiredTickets(ctx context.Context) error {
	purged, err := m.sessions.PurgeTickets(ctx)
	if err != nil {
		return fmt.Errorf("purging tickets: %w", err)
	}

	if purged > 0 {
		slogctx.Info(ctx, "Purged expired ticket claims", "count", purged)
	}

	return nil
}
