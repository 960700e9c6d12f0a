// Package sessionsql stores portal sessions and ticket claims in PostgreSQL.
// Unlike the Valkey backend nothing expires on its own here; the housekeeper
// job prunes both tables.
package sessionsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/internal/session"
)

type Repository struct {
	db *pgxpool.Pool
}

var _ = session.Repository(&Repository{})

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) LoadSession(ctx context.Context, sessionID string) (s session.Session, _ error) {
	if err := r.db.QueryRow(ctx, `SELECT id, user_id, email, name, role, unit_number, picture,
	credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited
FROM sessions
WHERE id = $1;`,
		sessionID,
	).Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.Role, &s.UnitNumber, &s.Picture,
		&s.Credential.Kind, &s.Credential.Secret, &s.Fingerprint, &s.CSRFToken, &s.Expiry, &s.LastVisited); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, serviceerr.ErrNotFound
		}

		return session.Session{}, fmt.Errorf("selecting from sessions: %w", err)
	}

	return s, nil
}

func (r *Repository) StoreSession(ctx context.Context, s session.Session) error {
	if _, err := r.db.Exec(
		ctx, `INSERT INTO sessions (id, user_id, email, name, role, unit_number, picture,
	credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id)
DO UPDATE SET (user_id, email, name, role, unit_number, picture,
	credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited) =
	(EXCLUDED.user_id, EXCLUDED.email, EXCLUDED.name, EXCLUDED.role, EXCLUDED.unit_number, EXCLUDED.picture,
	EXCLUDED.credential_kind, EXCLUDED.credential_secret, EXCLUDED.fingerprint, EXCLUDED.csrf_token, EXCLUDED.expiry, EXCLUDED.last_visited);`,
		s.ID, s.UserID, s.Email, s.Name, s.Role, s.UnitNumber, s.Picture,
		s.Credential.Kind, s.Credential.Secret, s.Fingerprint, s.CSRFToken, s.Expiry, s.LastVisited,
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into sessions: %w", err)
	}

	return nil
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1;`, sessionID); err != nil {
		return fmt.Errorf("deleting from sessions: %w", err)
	}

	return nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]session.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, email, name, role, unit_number, picture,
	credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited
FROM sessions;`)
	if err != nil {
		return nil, fmt.Errorf("selecting from sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var s session.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.Role, &s.UnitNumber, &s.Picture,
			&s.Credential.Kind, &s.Credential.Secret, &s.Fingerprint, &s.CSRFToken, &s.Expiry, &s.LastVisited); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}

		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}

	return sessions, nil
}

// ClaimTicket inserts the ticket as a new row; the primary key turns a second
// claim into a unique violation, which maps to serviceerr.ErrConflict.
func (r *Repository) ClaimTicket(ctx context.Context, ticket string, ttl time.Duration) error {
	if _, err := r.db.Exec(
		ctx, `INSERT INTO ticket_claims (ticket, claimed_at, purge_after)
VALUES ($1, now(), $2);`,
		ticket, time.Now().Add(ttl),
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into ticket_claims: %w", err)
	}

	return nil
}

func (r *Repository) PurgeTickets(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM ticket_claims WHERE purge_after < now();`)
	if err != nil {
		return 0, fmt.Errorf("deleting from ticket_claims: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
