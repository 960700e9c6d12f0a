// Package sessionvalkey stores portal sessions and ticket claims in Valkey.
// Entries carry a TTL, so both idle session cleanup and ticket purging happen
// server side.
package sessionvalkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/barangay-connect/member-portal/internal/session"
)

type ObjectType string

const (
	objectTypeSession ObjectType = "session"
	objectTypeTicket  ObjectType = "ticket"
)

var (
	ErrGetSessions  = errors.New("getting sessions from store")
	ErrGetSession   = errors.New("getting session from store")
	ErrStoreSession = errors.New("setting session into storage")
	ErrClaimTicket  = errors.New("claiming ticket in storage")
)

type Repository struct {
	store *store
}

var _ = session.Repository(&Repository{})

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		store: newStore(valkeyClient, prefix),
	}
}

func (r *Repository) LoadSession(ctx context.Context, sessionID string) (session.Session, error) {
	var s session.Session
	if err := r.store.Get(ctx, objectTypeSession, sessionID, &s); err != nil {
		return session.Session{}, errors.Join(ErrGetSession, err)
	}

	return s, nil
}

func (r *Repository) StoreSession(ctx context.Context, s session.Session) error {
	duration := time.Until(s.Expiry)
	if err := r.store.Set(ctx, objectTypeSession, s.ID, s, duration); err != nil {
		return errors.Join(ErrStoreSession, err)
	}

	return nil
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.store.Destroy(ctx, objectTypeSession, sessionID); err != nil {
		return fmt.Errorf("deleting session from store: %w", err)
	}

	return nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]session.Session, error) {
	var sessions []session.Session
	if err := getStoreObjects(ctx, r.store, objectTypeSession, "*", &sessions); err != nil {
		return nil, errors.Join(ErrGetSessions, err)
	}

	return sessions, nil
}

func (r *Repository) ClaimTicket(ctx context.Context, ticket string, ttl time.Duration) error {
	if err := r.store.SetIfAbsent(ctx, objectTypeTicket, ticket, ttl); err != nil {
		return errors.Join(ErrClaimTicket, err)
	}

	return nil
}

// PurgeTickets is a no-op; claims expire through their TTL.
func (r *Repository) PurgeTickets(context.Context) (int, error) {
	return 0, nil
}
