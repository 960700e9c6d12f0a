package session

import (
	"context"
	"time"
)

type Repository interface {
	// Session operations
	LoadSession(ctx context.Context, sessionID string) (Session, error)
	StoreSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]Session, error)
	// Ticket operations. ClaimTicket marks a sign-in ticket as used for the
	// given duration and returns serviceerr.ErrConflict when it was already
	// claimed. PurgeTickets removes claims whose duration has passed, for
	// backends that do not expire entries on their own.
	ClaimTicket(ctx context.Context, ticket string, ttl time.Duration) error
	PurgeTickets(ctx context.Context) (int, error)
}
