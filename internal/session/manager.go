// Package session owns the portal's browser session lifecycle: creating
// sessions from Core API sign-ins, resolving them on each request, and tearing
// them down on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/pkg/csrf"
)

// CoreAPI is the slice of the Core API client the manager needs. Data
// endpoints stay out of it; the manager only establishes and verifies
// identity.
type CoreAPI interface {
	Me(ctx context.Context, cred hoaapi.Credential) (hoaapi.User, error)
	Login(ctx context.Context, email, password string) (hoaapi.AuthResult, error)
	Register(ctx context.Context, reg hoaapi.RegisterRequest) (hoaapi.AuthResult, error)
	ExchangeTicket(ctx context.Context, ticket string) (hoaapi.AuthResult, error)
	Logout(ctx context.Context, cred hoaapi.Credential) error
}

type Manager struct {
	sessions Repository
	api      CoreAPI

	sessionDuration       time.Duration
	ticketTTL             time.Duration
	csrfSecret            []byte
	sessionCookieTemplate config.CookieTemplate
	csrfCookieTemplate    config.CookieTemplate
}

func NewManager(sessions Repository, api CoreAPI, conf config.Portal) (*Manager, error) {
	if len(conf.CSRFSecret) < 32 {
		return nil, errors.New("CSRF secret must be at least 32 bytes")
	}
	if conf.SessionCookieTemplate.Name == "" {
		return nil, errors.New("session cookie template must have a name")
	}

	return &Manager{
		sessions:              sessions,
		api:                   api,
		sessionDuration:       conf.SessionDuration,
		ticketTTL:             conf.TicketTTL,
		csrfSecret:            []byte(conf.CSRFSecret),
		sessionCookieTemplate: conf.SessionCookieTemplate,
		csrfCookieTemplate:    conf.CSRFCookieTemplate,
	}, nil
}

// Resolve determines the session behind a cookie value. An absent, unknown,
// expired, or upstream-rejected session resolves to the zero Session with a
// nil error; only an undetermined state, a storage failure or an unreachable
// Core API, comes back as an error. A session presented from a browser with a
// different fingerprint resolves to nothing but is kept in storage.
func (m *Manager) Resolve(ctx context.Context, sessionID, fingerprint string) (Session, error) {
	if sessionID == "" {
		return Session{}, nil
	}

	s, err := m.sessions.LoadSession(ctx, sessionID)
	if errors.Is(err, serviceerr.ErrNotFound) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}

	now := time.Now()
	if s.Expired(now) {
		m.discard(ctx, s.ID)
		return Session{}, nil
	}

	if s.Fingerprint != "" && s.Fingerprint != fingerprint {
		slogctx.Warn(ctx, "Session fingerprint mismatch", "session_id", s.ID)
		return Session{}, nil
	}

	user, err := m.api.Me(ctx, s.Credential)
	if errors.Is(err, serviceerr.ErrUnauthorized) {
		m.discard(ctx, s.ID)
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("verifying session upstream: %w", err)
	}

	// Refresh the identity snapshot, never the credential.
	s.Email = user.Email
	s.Name = user.Name
	s.Role = user.Role
	s.UnitNumber = user.UnitNumber
	s.Picture = user.Picture
	s.LastVisited = now
	if err := m.sessions.StoreSession(ctx, s); err != nil {
		slogctx.Warn(ctx, "Could not store refreshed session", "session_id", s.ID, "error", err)
	}

	return s, nil
}

// Login trades an email and password for a new session backed by a bearer
// credential.
func (m *Manager) Login(ctx context.Context, email, password, fingerprint string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, serviceerr.ErrInvalidInput.WithDescription("email and password are required")
	}

	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("logging in upstream: %w", err)
	}

	return m.createSession(ctx, result, fingerprint)
}

// Register creates an account upstream and opens a session for it in one step.
func (m *Manager) Register(ctx context.Context, reg hoaapi.RegisterRequest, fingerprint string) (Session, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return Session{}, serviceerr.ErrInvalidInput.WithDescription("email, password and name are required")
	}

	result, err := m.api.Register(ctx, reg)
	if err != nil {
		return Session{}, fmt.Errorf("registering upstream: %w", err)
	}

	return m.createSession(ctx, result, fingerprint)
}

// ExchangeTicket redeems a Google sign-in ticket for a session. The ticket is
// claimed in storage before the upstream exchange starts, so a duplicate
// submission fails with serviceerr.ErrTicketConsumed instead of triggering a
// second exchange. The claim is not released when the exchange fails; the
// ticket was burned upstream either way.
func (m *Manager) ExchangeTicket(ctx context.Context, ticket, fingerprint string) (Session, error) {
	if ticket == "" {
		return Session{}, serviceerr.ErrInvalidInput.WithDescription("missing sign-in ticket")
	}

	if err := m.sessions.ClaimTicket(ctx, ticket, m.ticketTTL); err != nil {
		if errors.Is(err, serviceerr.ErrConflict) {
			return Session{}, serviceerr.ErrTicketConsumed
		}

		return Session{}, fmt.Errorf("claiming ticket: %w", err)
	}

	result, err := m.api.ExchangeTicket(ctx, ticket)
	if err != nil {
		return Session{}, fmt.Errorf("exchanging ticket upstream: %w", err)
	}

	return m.createSession(ctx, result, fingerprint)
}

// Logout revokes the credential upstream and deletes the session. The
// upstream call is best effort; the local session is deleted regardless.
func (m *Manager) Logout(ctx context.Context, s Session) error {
	if err := m.api.Logout(ctx, s.Credential); err != nil {
		slogctx.Warn(ctx, "Upstream logout failed", "session_id", s.ID, "error", err)
	}

	if err := m.sessions.DeleteSession(ctx, s.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

func (m *Manager) createSession(ctx context.Context, result hoaapi.AuthResult, fingerprint string) (Session, error) {
	if result.Credential.Empty() {
		return Session{}, errors.New("upstream sign-in yielded no credential")
	}

	now := time.Now()
	id := NewID()
	s := Session{
		ID:          id,
		UserID:      result.User.UserID,
		Email:       result.User.Email,
		Name:        result.User.Name,
		Role:        result.User.Role,
		UnitNumber:  result.User.UnitNumber,
		Picture:     result.User.Picture,
		Credential:  result.Credential,
		Fingerprint: fingerprint,
		CSRFToken:   csrf.NewToken(id, m.csrfSecret),
		Expiry:      now.Add(m.sessionDuration),
		LastVisited: now,
	}

	if err := m.sessions.StoreSession(ctx, s); err != nil {
		return Session{}, fmt.Errorf("storing session: %w", err)
	}

	return s, nil
}

func (m *Manager) discard(ctx context.Context, sessionID string) {
	if err := m.sessions.DeleteSession(ctx, sessionID); err != nil {
		slogctx.Warn(ctx, "Could not delete stale session", "session_id", sessionID, "error", err)
	}
}

func (m *Manager) MakeSessionCookie(ctx context.Context, value string) (*http.Cookie, error) {
	sessionCookie := m.sessionCookieTemplate.ToCookie(value)

	err := sessionCookie.Valid()
	if err != nil {
		return nil, fmt.Errorf("invalid session cookie: %w", err)
	}

	if !sessionCookie.Secure {
		slogctx.Warn(ctx, "Session cookie is not marked as Secure; this is not recommended in production environments")
	}
	if !sessionCookie.HttpOnly {
		slogctx.Warn(ctx, "Session cookie is not marked as HttpOnly; this is not recommended in production environments")
	}

	return sessionCookie, nil
}

// MakeExpiredSessionCookie returns the cookie that clears the browser session.
func (m *Manager) MakeExpiredSessionCookie() *http.Cookie {
	return m.sessionCookieTemplate.ToExpiredCookie()
}

func (m *Manager) MakeCSRFCookie(ctx context.Context, value string) (*http.Cookie, error) {
	csrfCookie := m.csrfCookieTemplate.ToCookie(value)

	err := csrfCookie.Valid()
	if err != nil {
		return nil, fmt.Errorf("invalid CSRF cookie: %w", err)
	}

	if csrfCookie.HttpOnly {
		slogctx.Warn(ctx, "CSRF cookie is marked as HttpOnly; this is not recommended as the CSRF token needs to be accessible from JavaScript")
	}

	return csrfCookie, nil
}

// SessionCookieName returns the name the browser session cookie is set under.
func (m *Manager) SessionCookieName() string {
	return m.sessionCookieTemplate.Name
}

func (m *Manager) ValidateCSRFToken(token, sessionID string) bool {
	return csrf.Validate(token, sessionID, m.csrfSecret)
}
