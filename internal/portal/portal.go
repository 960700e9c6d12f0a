// Package portal serves the member-facing pages of Barangay Connect: the
// sign-in surfaces, the Google callback, the dashboard and the payments view.
// All business data comes from the Core API; the portal only owns sessions
// and rendering.
package portal

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/guard"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/session"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// DataAPI is the slice of the Core API client the pages read from. Identity
// operations go through the session manager instead.
type DataAPI interface {
	Payments(ctx context.Context, cred hoaapi.Credential, limit int) ([]hoaapi.Payment, error)
	CreatePayment(ctx context.Context, cred hoaapi.Credential, req hoaapi.CreatePaymentRequest) (hoaapi.CheckoutSession, error)
	Announcements(ctx context.Context, limit int) ([]hoaapi.Announcement, error)
	Notifications(ctx context.Context, cred hoaapi.Credential) ([]hoaapi.Notification, error)
	MarkNotificationRead(ctx context.Context, cred hoaapi.Credential, notificationID string) error
}

type Portal struct {
	manager *session.Manager
	api     DataAPI
	guard   *guard.Guard

	templates   *template.Template
	signIns     metric.Int64Counter
	loginPath   string
	landingPath string
}

func New(manager *session.Manager, api DataAPI, conf config.Portal) (*Portal, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	signIns, err := newSignInCounter()
	if err != nil {
		return nil, fmt.Errorf("creating sign-in counter: %w", err)
	}

	return &Portal{
		manager:     manager,
		api:         api,
		guard:       guard.New(manager, conf.LoginPath),
		templates:   templates,
		signIns:     signIns,
		loginPath:   conf.LoginPath,
		landingPath: conf.LandingPath,
	}, nil
}

// Router returns the portal's HTTP handler with all routes wired.
func (p *Portal) Router() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", p.guard.Resolve(http.HandlerFunc(p.handleHome)))
	mux.Handle("GET /login", p.guard.Resolve(http.HandlerFunc(p.handleLoginPage)))
	mux.Handle("POST /login", http.HandlerFunc(p.handleLogin))
	mux.Handle("GET /register", p.guard.Resolve(http.HandlerFunc(p.handleRegisterPage)))
	mux.Handle("POST /register", http.HandlerFunc(p.handleRegister))
	mux.Handle("GET /auth/callback", http.HandlerFunc(p.handleCallbackPage))
	mux.Handle("POST /auth/callback", p.guard.Resolve(http.HandlerFunc(p.handleCallback)))
	mux.Handle("POST /logout", p.guard.Protect(p.requireCSRF(p.handleLogout)))

	mux.Handle("GET /dashboard", p.guard.Protect(http.HandlerFunc(p.handleDashboard)))
	mux.Handle("GET /payments", p.guard.Protect(http.HandlerFunc(p.handlePaymentsPage)))
	mux.Handle("POST /payments", p.guard.Protect(p.requireCSRF(p.handleCreatePayment)))
	mux.Handle("POST /notifications/{id}/read", p.guard.Protect(p.requireCSRF(p.handleNotificationRead)))

	return mux
}

// requireCSRF rejects state-changing form submissions whose token does not
// match the session.
func (p *Portal) requireCSRF(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := guard.SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}

		if !p.manager.ValidateCSRFToken(r.PostFormValue("csrf_token"), s.ID) {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *Portal) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.templates.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already out; nothing left to do but log.
		fmt.Fprintf(w, "<!-- render error: %v -->", err)
	}
}

// issueSessionCookies sets the browser session cookie and the CSRF companion
// for a freshly created session.
func (p *Portal) issueSessionCookies(w http.ResponseWriter, r *http.Request, s session.Session) error {
	sessionCookie, err := p.manager.MakeSessionCookie(r.Context(), s.ID)
	if err != nil {
		return fmt.Errorf("making session cookie: %w", err)
	}

	csrfCookie, err := p.manager.MakeCSRFCookie(r.Context(), s.CSRFToken)
	if err != nil {
		return fmt.Errorf("making csrf cookie: %w", err)
	}

	http.SetCookie(w, sessionCookie)
	http.SetCookie(w, csrfCookie)

	return nil
}
