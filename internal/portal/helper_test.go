package portal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/portal"
	"github.com/barangay-connect/member-portal/internal/session"
	sessionmock "github.com/barangay-connect/member-portal/internal/session/mock"
)

type fakeCoreAPI struct {
	user       hoaapi.User
	credential hoaapi.Credential

	meErr, loginErr, registerErr, exchangeErr error

	exchangeCalls int
}

func (f *fakeCoreAPI) Me(context.Context, hoaapi.Credential) (hoaapi.User, error) {
	if f.meErr != nil {
		return hoaapi.User{}, f.meErr
	}
	return f.user, nil
}

func (f *fakeCoreAPI) Login(context.Context, string, string) (hoaapi.AuthResult, error) {
	if f.loginErr != nil {
		return hoaapi.AuthResult{}, f.loginErr
	}
	return hoaapi.AuthResult{User: f.user, Credential: f.credential}, nil
}

func (f *fakeCoreAPI) Register(context.Context, hoaapi.RegisterRequest) (hoaapi.AuthResult, error) {
	if f.registerErr != nil {
		return hoaapi.AuthResult{}, f.registerErr
	}
	return hoaapi.AuthResult{User: f.user, Credential: f.credential}, nil
}

func (f *fakeCoreAPI) ExchangeTicket(context.Context, string) (hoaapi.AuthResult, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return hoaapi.AuthResult{}, f.exchangeErr
	}
	return hoaapi.AuthResult{User: f.user, Credential: f.credential}, nil
}

func (f *fakeCoreAPI) Logout(context.Context, hoaapi.Credential) error {
	return nil
}

type fakeDataAPI struct {
	payments      []hoaapi.Payment
	checkout      hoaapi.CheckoutSession
	announcements []hoaapi.Announcement
	notifications []hoaapi.Notification

	paymentsErr, createErr, announcementsErr, notificationsErr, markReadErr error

	markedRead []string
}

func (f *fakeDataAPI) Payments(context.Context, hoaapi.Credential, int) ([]hoaapi.Payment, error) {
	return f.payments, f.paymentsErr
}

func (f *fakeDataAPI) CreatePayment(_ context.Context, _ hoaapi.Credential, _ hoaapi.CreatePaymentRequest) (hoaapi.CheckoutSession, error) {
	if f.createErr != nil {
		return hoaapi.CheckoutSession{}, f.createErr
	}
	return f.checkout, nil
}

func (f *fakeDataAPI) Announcements(context.Context, int) ([]hoaapi.Announcement, error) {
	return f.announcements, f.announcementsErr
}

func (f *fakeDataAPI) Notifications(context.Context, hoaapi.Credential) ([]hoaapi.Notification, error) {
	return f.notifications, f.notificationsErr
}

func (f *fakeDataAPI) MarkNotificationRead(_ context.Context, _ hoaapi.Credential, id string) error {
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.markedRead = append(f.markedRead, id)
	return nil
}

func portalConf() config.Portal {
	return config.Portal{
		SessionDuration: time.Hour,
		TicketTTL:       15 * time.Minute,
		CSRFSecret:      "0123456789abcdef0123456789abcdef",
		SessionCookieTemplate: config.CookieTemplate{
			Name:     "portal-session",
			MaxAge:   3600,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
			SameSite: config.CookieSameSiteLax,
		},
		CSRFCookieTemplate: config.CookieTemplate{
			Name:     "portal-csrf",
			MaxAge:   3600,
			Path:     "/",
			Secure:   true,
			SameSite: config.CookieSameSiteStrict,
		},
		LoginPath:   "/login",
		LandingPath: "/dashboard",
	}
}

type testPortal struct {
	handler http.Handler
	manager *session.Manager
	repo    *sessionmock.Repository
	core    *fakeCoreAPI
	data    *fakeDataAPI
}

func newTestPortal(t *testing.T, core *fakeCoreAPI, data *fakeDataAPI) *testPortal {
	t.Helper()

	if core == nil {
		core = &fakeCoreAPI{
			user: hoaapi.User{
				UserID: "user-1",
				Email:  "maria@example.com",
				Name:   "Maria Santos",
				Role:   hoaapi.RoleResident,
			},
			credential: hoaapi.Credential{Kind: hoaapi.CredentialBearer, Secret: "token-abc"},
		}
	}
	if data == nil {
		data = &fakeDataAPI{}
	}

	repo := sessionmock.NewInMemRepository()
	manager, err := session.NewManager(repo, core, portalConf())
	require.NoError(t, err)

	p, err := portal.New(manager, data, portalConf())
	require.NoError(t, err)

	return &testPortal{
		handler: p.Router(),
		manager: manager,
		repo:    repo,
		core:    core,
		data:    data,
	}
}

// signIn creates a session through the login flow and returns the cookies the
// portal issued.
func (tp *testPortal) signIn(t *testing.T) (cookies []*http.Cookie, csrfToken string) {
	t.Helper()

	rec := tp.postForm(t, "/login", url.Values{
		"email":    []string{"maria@example.com"},
		"password": []string{"hunter2"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	cookies = rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, cookie := range cookies {
		if cookie.Name == "portal-csrf" {
			csrfToken = cookie.Value
		}
	}
	require.NotEmpty(t, csrfToken)

	return cookies, csrfToken
}

func (tp *testPortal) get(t *testing.T, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	tp.handler.ServeHTTP(rec, req)

	return rec
}

// assertFlashCleared checks the response told the browser to drop the flash
// cookie.
func assertFlashCleared(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "portal-flash" && cookie.MaxAge < 0 {
			return
		}
	}

	t.Error("flash cookie was not cleared")
}

func (tp *testPortal) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	tp.handler.ServeHTTP(rec, req)

	return rec
}
