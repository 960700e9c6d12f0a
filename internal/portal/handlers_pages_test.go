package portal_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/serviceerr"
)

func TestDashboard(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)

		rec := tp.get(t, "/dashboard", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("shows announcements, notifications and payments", func(t *testing.T) {
		data := &fakeDataAPI{
			announcements: []hoaapi.Announcement{
				{AnnouncementID: "ann-1", Title: "Water interruption", Content: "Maintenance on Saturday.", Priority: "high", AuthorName: "Admin", CreatedAt: time.Now()},
			},
			notifications: []hoaapi.Notification{
				{NotificationID: "notif-1", Title: "Dues due", Message: "September dues are due.", Read: false},
				{NotificationID: "notif-2", Title: "Welcome", Message: "Welcome to the portal.", Read: true},
			},
			payments: []hoaapi.Payment{
				{PaymentID: "pay-1", Amount: 1500, PaymentMethod: hoaapi.MethodStripe, Status: hoaapi.PaymentSuccessful, CreatedAt: time.Now()},
			},
		}
		tp := newTestPortal(t, nil, data)
		cookies, _ := tp.signIn(t)

		rec := tp.get(t, "/dashboard", cookies)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Welcome, Maria Santos")
		assert.Contains(t, body, "Water interruption")
		assert.Contains(t, body, "Dues due")
		assert.Contains(t, body, "(1 unread)")
		assert.Contains(t, body, "1500.00")
	})

	t.Run("renders with empty sections when data calls fail", func(t *testing.T) {
		data := &fakeDataAPI{
			announcementsErr: serviceerr.ErrUpstreamUnreachable,
			notificationsErr: serviceerr.ErrUpstreamUnreachable,
			paymentsErr:      serviceerr.ErrUpstreamUnreachable,
		}
		tp := newTestPortal(t, nil, data)
		cookies, _ := tp.signIn(t)

		rec := tp.get(t, "/dashboard", cookies)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No announcements.")
	})

	t.Run("answers 503 when the session state cannot be determined", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)
		cookies, _ := tp.signIn(t)

		tp.core.meErr = serviceerr.ErrUpstreamUnreachable
		rec := tp.get(t, "/dashboard", cookies)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestPayments(t *testing.T) {
	t.Run("lists the payment history", func(t *testing.T) {
		data := &fakeDataAPI{
			payments: []hoaapi.Payment{
				{PaymentID: "pay-1", Amount: 1500, PaymentMethod: hoaapi.MethodGCash, Status: hoaapi.PaymentPending, TransactionID: "txn-1", CreatedAt: time.Now()},
			},
		}
		tp := newTestPortal(t, nil, data)
		cookies, _ := tp.signIn(t)

		rec := tp.get(t, "/payments", cookies)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "txn-1")
	})

	t.Run("creating a gateway payment redirects to checkout", func(t *testing.T) {
		data := &fakeDataAPI{
			checkout: hoaapi.CheckoutSession{
				PaymentID:   "pay-2",
				CheckoutURL: "https://checkout.stripe.com/c/pay/cs_test",
			},
		}
		tp := newTestPortal(t, nil, data)
		cookies, csrfToken := tp.signIn(t)

		rec := tp.postForm(t, "/payments", url.Values{
			"csrf_token":     []string{csrfToken},
			"amount":         []string{"1500"},
			"payment_method": []string{"stripe"},
		}, cookies)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", rec.Header().Get("Location"))
	})

	t.Run("an invalid amount re-renders the form", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)
		cookies, csrfToken := tp.signIn(t)

		rec := tp.postForm(t, "/payments", url.Values{
			"csrf_token":     []string{csrfToken},
			"amount":         []string{"-5"},
			"payment_method": []string{"gcash"},
		}, cookies)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "valid amount")
	})

	t.Run("creating a payment requires a CSRF token", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)
		cookies, _ := tp.signIn(t)

		rec := tp.postForm(t, "/payments", url.Values{
			"amount":         []string{"1500"},
			"payment_method": []string{"gcash"},
		}, cookies)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestNotificationRead(t *testing.T) {
	tp := newTestPortal(t, nil, nil)
	cookies, csrfToken := tp.signIn(t)

	rec := tp.postForm(t, "/notifications/notif-1/read", url.Values{
		"csrf_token": []string{csrfToken},
	}, cookies)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, []string{"notif-1"}, tp.data.markedRead)
}

func TestHome(t *testing.T) {
	t.Run("anonymous visitors land on login", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)

		rec := tp.get(t, "/", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated visitors land on the dashboard", func(t *testing.T) {
		tp := newTestPortal(t, nil, nil)
		cookies, _ := tp.signIn(t)

		rec := tp.get(t, "/", cookies)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}
