package portal

import (
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/fragment"
	"github.com/barangay-connect/member-portal/internal/guard"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/pkg/fingerprint"
)

type authPageData struct {
	Flash Flash
	Error string
	Email string
	Name  string
	Unit  string
	Phone string
}

func (p *Portal) handleHome(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())
	if s.Authenticated() {
		http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, p.loginPath, http.StatusSeeOther)
}

func (p *Portal) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())
	if s.Authenticated() {
		http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
		return
	}

	p.render(w, http.StatusOK, "login.html.tmpl", authPageData{Flash: popFlash(w, r)})
}

func (p *Portal) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	fp, _ := fingerprint.FromHTTPRequest(r)
	s, err := p.manager.Login(r.Context(), email, password, fp)
	p.recordSignIn(r.Context(), signInPassword, err)
	if err != nil {
		p.render(w, authFailureStatus(err), "login.html.tmpl", authPageData{
			Error: authFailureMessage(err, "Invalid email or password."),
			Email: email,
		})
		return
	}

	if err := p.issueSessionCookies(w, r, s); err != nil {
		slogctx.Error(r.Context(), "Could not issue session cookies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
}

func (p *Portal) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())
	if s.Authenticated() {
		http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
		return
	}

	p.render(w, http.StatusOK, "register.html.tmpl", authPageData{})
}

func (p *Portal) handleRegister(w http.ResponseWriter, r *http.Request) {
	reg := hoaapi.RegisterRequest{
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		Name:       r.PostFormValue("name"),
		UnitNumber: r.PostFormValue("unit_number"),
		Phone:      r.PostFormValue("phone"),
	}

	fp, _ := fingerprint.FromHTTPRequest(r)
	s, err := p.manager.Register(r.Context(), reg, fp)
	p.recordSignIn(r.Context(), signInRegister, err)
	if err != nil {
		p.render(w, authFailureStatus(err), "register.html.tmpl", authPageData{
			Error: authFailureMessage(err, "Registration failed. Please check the form and try again."),
			Email: reg.Email,
			Name:  reg.Name,
			Unit:  reg.UnitNumber,
			Phone: reg.Phone,
		})
		return
	}

	if err := p.issueSessionCookies(w, r, s); err != nil {
		slogctx.Error(r.Context(), "Could not issue session cookies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
}

// handleCallbackPage serves the bootstrap page the identity provider
// redirects to. The sign-in ticket arrives in the URL fragment, which the
// browser never sends to the server, so the page carries a small script that
// posts the fragment back.
func (p *Portal) handleCallbackPage(w http.ResponseWriter, _ *http.Request) {
	p.render(w, http.StatusOK, "callback.html.tmpl", nil)
}

// handleCallback finishes the Google sign-in. Every outcome leaves the
// /auth/callback URL behind: failures redirect to the login page carrying a
// failure flash, success redirects to the landing page with a welcome flash.
func (p *Portal) handleCallback(w http.ResponseWriter, r *http.Request) {
	ticket, ok := fragment.Ticket(r.PostFormValue("fragment"))
	if !ok {
		p.failToLogin(w, r, "The sign-in link is incomplete. Please try signing in again.")
		return
	}

	fp, _ := fingerprint.FromHTTPRequest(r)
	s, err := p.manager.ExchangeTicket(r.Context(), ticket, fp)
	p.recordSignIn(r.Context(), signInTicket, err)
	if errors.Is(err, serviceerr.ErrTicketConsumed) {
		// A second submission of the same ticket. When the first one already
		// established this browser's session, just move along.
		if existing, _ := guard.SessionFromContext(r.Context()); existing.Authenticated() {
			http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
			return
		}

		p.failToLogin(w, r, "This sign-in link was already used. Please sign in again.")
		return
	}
	if err != nil {
		slogctx.Warn(r.Context(), "Ticket exchange failed", "error", err)
		p.failToLogin(w, r, authFailureMessage(err, "Google sign-in failed. Please try again."))
		return
	}

	if err := p.issueSessionCookies(w, r, s); err != nil {
		slogctx.Error(r.Context(), "Could not issue session cookies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	setFlash(w, Flash{Kind: flashSuccess, Message: "Welcome, " + s.Name + "! You are signed in."})
	http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
}

func (p *Portal) failToLogin(w http.ResponseWriter, r *http.Request, message string) {
	setFlash(w, Flash{Kind: flashError, Message: message})
	http.Redirect(w, r, p.loginPath, http.StatusSeeOther)
}

func (p *Portal) handleLogout(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())

	if err := p.manager.Logout(r.Context(), s); err != nil {
		slogctx.Error(r.Context(), "Logout failed", "session_id", s.ID, "error", err)
	}

	// The browser cookie is cleared regardless of what storage did.
	http.SetCookie(w, p.manager.MakeExpiredSessionCookie())
	http.Redirect(w, r, p.loginPath, http.StatusSeeOther)
}

func authFailureStatus(err error) int {
	var svcErr *serviceerr.Error
	if errors.As(err, &svcErr) {
		return svcErr.HTTPStatus()
	}

	return http.StatusBadGateway
}

// authFailureMessage picks what the form shows: the upstream detail when the
// failure is the user's to fix, a generic line otherwise.
func authFailureMessage(err error, fallback string) string {
	if errors.Is(err, serviceerr.ErrUpstreamUnreachable) {
		return "The portal cannot reach the Barangay Connect service right now. Please try again shortly."
	}

	var svcErr *serviceerr.Error
	if errors.As(err, &svcErr) && svcErr.Description != "" {
		return svcErr.Description
	}

	return fallback
}
