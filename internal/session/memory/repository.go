// Package sessionmemory keeps sessions in process memory. Intended for local
// development and single-instance deployments; sessions do not survive a
// restart.
package sessionmemory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/internal/session"
)

type Repository struct {
	sessions *gocache.Cache
	tickets  *gocache.Cache
}

var _ = session.Repository(&Repository{})

func NewRepository(cleanupInterval time.Duration) *Repository {
	return &Repository{
		sessions: gocache.New(gocache.NoExpiration, cleanupInterval),
		tickets:  gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (r *Repository) LoadSession(_ context.Context, sessionID string) (session.Session, error) {
	val, ok := r.sessions.Get(sessionID)
	if !ok {
		return session.Session{}, serviceerr.ErrNotFound
	}

	s, ok := val.(session.Session)
	if !ok {
		return session.Session{}, errors.New("unexpected type in session cache")
	}

	return s, nil
}

func (r *Repository) StoreSession(_ context.Context, s session.Session) error {
	r.sessions.Set(s.ID, s, time.Until(s.Expiry))
	return nil
}

func (r *Repository) DeleteSession(_ context.Context, sessionID string) error {
	r.sessions.Delete(sessionID)
	return nil
}

func (r *Repository) ListSessions(_ context.Context) ([]session.Session, error) {
	items := r.sessions.Items()
	sessions := make([]session.Session, 0, len(items))
	for _, item := range items {
		s, ok := item.Object.(session.Session)
		if !ok {
			return nil, errors.New("unexpected type in session cache")
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// ClaimTicket relies on the cache's add semantics: Add fails when the key is
// already present, which is exactly the one-shot latch.
func (r *Repository) ClaimTicket(_ context.Context, ticket string, ttl time.Duration) error {
	if err := r.tickets.Add(ticket, struct{}{}, ttl); err != nil {
		return serviceerr.ErrConflict
	}

	return nil
}

// PurgeTickets is a no-op; the cache expires claims on its own.
func (r *Repository) PurgeTickets(context.Context) (int, error) {
	return 0, nil
}
