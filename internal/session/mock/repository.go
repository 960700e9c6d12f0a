package sessionmock

import (
	"context"
	"time"

	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/internal/session"
)

type RepositoryOption func(*Repository)

type Repository struct {
	sessions map[string]session.Session
	tickets  map[string]time.Time

	loadSessionErr, storeSessionErr, deleteSessionErr error
	listSessionsErr, claimTicketErr                   error
}

func WithSession(sess session.Session) RepositoryOption {
	return func(r *Repository) { r.sessions[sess.ID] = sess }
}
func WithClaimedTicket(ticket string) RepositoryOption {
	return func(r *Repository) { r.tickets[ticket] = time.Now().Add(time.Hour) }
}
func WithLoadSessionError(err error) RepositoryOption {
	return func(r *Repository) { r.loadSessionErr = err }
}
func WithStoreSessionError(err error) RepositoryOption {
	return func(r *Repository) { r.storeSessionErr = err }
}
func WithDeleteSessionError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteSessionErr = err }
}
func WithListSessionsError(err error) RepositoryOption {
	return func(r *Repository) { r.listSessionsErr = err }
}
func WithClaimTicketError(err error) RepositoryOption {
	return func(r *Repository) { r.claimTicketErr = err }
}

var _ = session.Repository(&Repository{})

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{
		sessions: make(map[string]session.Session),
		tickets:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) LoadSession(_ context.Context, sessionID string) (session.Session, error) {
	if r.loadSessionErr != nil {
		return session.Session{}, r.loadSessionErr
	}

	s, ok := r.sessions[sessionID]
	if !ok {
		return session.Session{}, serviceerr.ErrNotFound
	}

	return s, nil
}

func (r *Repository) StoreSession(_ context.Context, s session.Session) error {
	if r.storeSessionErr != nil {
		return r.storeSessionErr
	}

	r.sessions[s.ID] = s

	return nil
}

func (r *Repository) DeleteSession(_ context.Context, sessionID string) error {
	if r.deleteSessionErr != nil {
		return r.deleteSessionErr
	}

	delete(r.sessions, sessionID)

	return nil
}

func (r *Repository) ListSessions(_ context.Context) ([]session.Session, error) {
	if r.listSessionsErr != nil {
		return nil, r.listSessionsErr
	}

	sessions := make([]session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (r *Repository) ClaimTicket(_ context.Context, ticket string, ttl time.Duration) error {
	if r.claimTicketErr != nil {
		return r.claimTicketErr
	}

	if _, ok := r.tickets[ticket]; ok {
		return serviceerr.ErrConflict
	}

	r.tickets[ticket] = time.Now().Add(ttl)

	return nil
}

func (r *Repository) PurgeTickets(context.Context) (int, error) {
	now := time.Now()
	purged := 0
	for ticket, purgeAfter := range r.tickets {
		if purgeAfter.Before(now) {
			delete(r.tickets, ticket)
			purged++
		}
	}

	return purged, nil
}

// Sessions returns a copy of the stored sessions for test assertions.
func (r *Repository) Sessions() map[string]session.Session {
	sessions := make(map[string]session.Session, len(r.sessions))
	for id, s := range r.sessions {
		sessions[id] = s
	}

	return sessions
}
