package session_test

import (
	"context"
	"time"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
)

// fakeCoreAPI satisfies session.CoreAPI with canned answers and call counts.
type fakeCoreAPI struct {
	user       hoaapi.User
	credential hoaapi.Credential

	meErr, loginErr, registerErr, exchangeErr, logoutErr           error
	meCalls, loginCalls, registerCalls, exchangeCalls, logoutCalls int
}

func (f *fakeCoreAPI) Me(context.Context, hoaapi.Credential) (hoaapi.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return hoaapi.User{}, f.meErr
	}

	return f.user, nil
}

func (f *fakeCoreAPI) Login(context.Context, string, string) (hoaapi.AuthResult, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return hoaapi.AuthResult{}, f.loginErr
	}

	return hoaapi.AuthResult{User: f.user, Credential: f.credential}, nil
}

func (f *fakeCoreAPI) Register(context.Context, hoaapi.RegisterRequest) (hoaapi.AuthResult, error) {
	f.registerCalls++
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
	f.logoutCalls++
	return f.logoutErr
}

func residentUser() hoaapi.User {
	return hoaapi.User{
		UserID:     "user-1",
		Email:      "maria@example.com",
		Name:       "Maria Santos",
		Role:       hoaapi.RoleResident,
		UnitNumber: "A-101",
	}
}

func bearerCredential() hoaapi.Credential {
	return hoaapi.Credential{Kind: hoaapi.CredentialBearer, Secret: "token-abc"}
}

func portalConf() config.Portal {
	return config.Portal{
		SessionDuration: time.Hour,
		TicketTTL:       15 * time.Minute,
		CSRFSecret:      "0123456789abcdef0123456789abcdef",
		SessionCookieTemplate: config.CookieTemplate{
			Name:     "__Host-Http-Portal-Session",
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
	}
}
