// Package hoaapi is the HTTP adapter for the Barangay Connect Core API. It is
// the single place where session credentials turn into request authentication
// and where upstream failures are normalized into service errors.
package hoaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/serviceerr"
)

// sessionCookieName is the upstream cookie the Core API sets when it completes
// a Google sign-in exchange. It is captured into the session credential and
// never forwarded to the browser.
const sessionCookieName = "session_token"

type CredentialKind string

const (
	// CredentialNone marks an anonymous request.
	CredentialNone CredentialKind = ""
	// CredentialBearer authenticates with an Authorization header. Issued by
	// the password login and register endpoints.
	CredentialBearer CredentialKind = "bearer"
	// CredentialCookie authenticates with the upstream session cookie. Issued
	// by the Google callback exchange.
	CredentialCookie CredentialKind = "cookie"
)

// Credential is the upstream proof of identity held by a portal session. A
// session carries exactly one credential, fixed at creation.
type Credential struct {
	Kind   CredentialKind `json:"kind"`
	Secret string         `json:"secret"`
}

func (c Credential) Empty() bool {
	return c.Kind == CredentialNone || c.Secret == ""
}

// AuthResult is the outcome of an operation that establishes identity.
type AuthResult struct {
	User       User
	Credential Credential
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	UnitNumber string `json:"unit_number,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type CreatePaymentRequest struct {
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Description   string        `json:"description,omitempty"`
}

// CheckoutSession is the Core API's answer to a payment creation. CheckoutURL
// is only set for gateway-backed methods.
type CheckoutSession struct {
	PaymentID   string        `json:"payment_id"`
	CheckoutURL string        `json:"checkout_url"`
	SessionID   string        `json:"session_id"`
	Status      PaymentStatus `json:"status"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(conf config.CoreAPI, httpClient *http.Client) (*Client, error) {
	baseURL, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing core api base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.Timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Me returns the user the credential belongs to. An invalid or expired
// credential yields serviceerr.ErrUnauthorized, a transport failure yields
// serviceerr.ErrUpstreamUnreachable.
func (c *Client) Me(ctx context.Context, cred Credential) (User, error) {
	if cred.Empty() {
		return User{}, serviceerr.ErrUnauthorized
	}

	var out struct {
		User User `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "auth/me", nil, cred, nil, &out); err != nil {
		return User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return out.User, nil
}

// Login exchanges an email and password for a bearer credential.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		User        User   `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if _, err := c.do(ctx, http.MethodPost, "auth/login", nil, Credential{}, body, &out); err != nil {
		return AuthResult{}, fmt.Errorf("logging in: %w", err)
	}

	return AuthResult{
		User:       out.User,
		Credential: Credential{Kind: CredentialBearer, Secret: out.AccessToken},
	}, nil
}

// Register creates an account and returns the bearer credential the Core API
// issues alongside it. A duplicate email yields serviceerr.ErrEmailTaken.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (AuthResult, error) {
	var out struct {
		User        User   `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if _, err := c.do(ctx, http.MethodPost, "auth/register", nil, Credential{}, reg, &out); err != nil {
		return AuthResult{}, fmt.Errorf("registering: %w", err)
	}

	return AuthResult{
		User:       out.User,
		Credential: Credential{Kind: CredentialBearer, Secret: out.AccessToken},
	}, nil
}

// ExchangeTicket redeems a Google sign-in ticket. The Core API answers with
// the user and a session cookie; the cookie value becomes the credential.
func (c *Client) ExchangeTicket(ctx context.Context, ticket string) (AuthResult, error) {
	body := map[string]string{"session_id": ticket}
	var out struct {
		User User `json:"user"`
	}
	resp, err := c.do(ctx, http.MethodPost, "auth/google/callback", nil, Credential{}, body, &out)
	if err != nil {
		return AuthResult{}, fmt.Errorf("exchanging ticket: %w", err)
	}

	cred := Credential{}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			cred = Credential{Kind: CredentialCookie, Secret: cookie.Value}
		}
	}
	if cred.Empty() {
		return AuthResult{}, fmt.Errorf("callback response missing %s cookie", sessionCookieName)
	}

	return AuthResult{User: out.User, Credential: cred}, nil
}

// Logout invalidates the credential upstream.
func (c *Client) Logout(ctx context.Context, cred Credential) error {
	if _, err := c.do(ctx, http.MethodPost, "auth/logout", nil, cred, nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// Payments lists the newest payments of the credential's user.
func (c *Client) Payments(ctx context.Context, cred Credential, limit int) ([]Payment, error) {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var out struct {
		Payments []Payment `json:"payments"`
	}
	if _, err := c.do(ctx, http.MethodGet, "payments", query, cred, nil, &out); err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return out.Payments, nil
}

// CreatePayment opens a payment and, for gateway methods, a checkout session
// the browser should be redirected to.
func (c *Client) CreatePayment(ctx context.Context, cred Credential, req CreatePaymentRequest) (CheckoutSession, error) {
	var out CheckoutSession
	if _, err := c.do(ctx, http.MethodPost, "payments/create", nil, cred, req, &out); err != nil {
		return CheckoutSession{}, fmt.Errorf("creating payment: %w", err)
	}
	return out, nil
}

// Announcements lists the newest community announcements. The endpoint is
// public upstream, so no credential is attached.
func (c *Client) Announcements(ctx context.Context, limit int) ([]Announcement, error) {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var out struct {
		Announcements []Announcement `json:"announcements"`
	}
	if _, err := c.do(ctx, http.MethodGet, "announcements", query, Credential{}, nil, &out); err != nil {
		return nil, fmt.Errorf("listing announcements: %w", err)
	}
	return out.Announcements, nil
}

// Notifications lists the newest notifications of the credential's user.
func (c *Client) Notifications(ctx context.Context, cred Credential) ([]Notification, error) {
	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	if _, err := c.do(ctx, http.MethodGet, "notifications", nil, cred, nil, &out); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return out.Notifications, nil
}

// MarkNotificationRead marks a single notification of the credential's user
// as read.
func (c *Client) MarkNotificationRead(ctx context.Context, cred Credential, notificationID string) error {
	path := "notifications/" + url.PathEscape(notificationID) + "/read"
	if _, err := c.do(ctx, http.MethodPut, path, nil, cred, nil, nil); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// do executes one Core API request. The response body is consumed before
// returning; callers may still read headers and cookies from the response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, cred Credential, body, out any) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch cred.Kind {
	case CredentialBearer:
		req.Header.Set("Authorization", "Bearer "+cred.Secret)
	case CredentialCookie:
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cred.Secret})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", errors.Join(serviceerr.ErrUpstreamUnreachable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, apiError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp, nil
}

// apiError turns a Core API error response into a service error, carrying the
// upstream detail message when one is present.
func apiError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	var svcErr *serviceerr.Error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(payload.Detail), "already registered") {
			svcErr = serviceerr.ErrEmailTaken
		} else {
			svcErr = serviceerr.ErrInvalidInput
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		svcErr = serviceerr.ErrUnauthorized
	case http.StatusNotFound:
		svcErr = serviceerr.ErrNotFound
	case http.StatusConflict:
		svcErr = serviceerr.ErrConflict
	default:
		svcErr = serviceerr.ErrUnknown
	}

	if payload.Detail != "" {
		return svcErr.WithDescription(payload.Detail)
	}
	return svcErr
}
