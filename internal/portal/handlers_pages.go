package portal

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/guard"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/session"
)

const (
	dashboardAnnouncementLimit = 5
	dashboardPaymentLimit      = 5
	paymentHistoryLimit        = 50
)

type dashboardData struct {
	Session       session.Session
	Flash         Flash
	Announcements []hoaapi.Announcement
	Notifications []hoaapi.Notification
	Payments      []hoaapi.Payment
	Unread        int
}

type paymentsData struct {
	Session  session.Session
	Payments []hoaapi.Payment
	Error    string
}

// handleDashboard aggregates the member's view. The sections load
// concurrently and each degrades on its own: a failed fetch logs a warning
// and renders empty rather than taking the whole page down.
func (p *Portal) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())
	ctx := r.Context()

	data := dashboardData{Session: s, Flash: popFlash(w, r)}

	// Each goroutine owns its section of data, so no locking is needed.
	var g errgroup.Group

	g.Go(func() error {
		announcements, err := p.api.Announcements(ctx, dashboardAnnouncementLimit)
		if err != nil {
			slogctx.Warn(ctx, "Could not load announcements", "error", err)
			return nil
		}

		data.Announcements = announcements

		return nil
	})

	g.Go(func() error {
		notifications, err := p.api.Notifications(ctx, s.Credential)
		if err != nil {
			slogctx.Warn(ctx, "Could not load notifications", "error", err)
			return nil
		}

		data.Notifications = notifications
		for _, n := range notifications {
			if !n.Read {
				data.Unread++
			}
		}

		return nil
	})

	g.Go(func() error {
		payments, err := p.api.Payments(ctx, s.Credential, dashboardPaymentLimit)
		if err != nil {
			slogctx.Warn(ctx, "Could not load payments", "error", err)
			return nil
		}

		data.Payments = payments

		return nil
	})

	_ = g.Wait()

	p.render(w, http.StatusOK, "dashboard.html.tmpl", data)
}

func (p *Portal) handlePaymentsPage(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())

	payments, err := p.api.Payments(r.Context(), s.Credential, paymentHistoryLimit)
	if err != nil {
		slogctx.Warn(r.Context(), "Could not load payments", "error", err)
		p.render(w, http.StatusOK, "payments.html.tmpl", paymentsData{
			Session: s,
			Error:   "Payment history is unavailable right now.",
		})
		return
	}

	p.render(w, http.StatusOK, "payments.html.tmpl", paymentsData{Session: s, Payments: payments})
}

// handleCreatePayment opens a payment upstream and sends the browser to the
// gateway checkout when one is involved.
func (p *Portal) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())

	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil || amount <= 0 {
		p.render(w, http.StatusBadRequest, "payments.html.tmpl", paymentsData{
			Session: s,
			Error:   "Please enter a valid amount.",
		})
		return
	}

	checkout, err := p.api.CreatePayment(r.Context(), s.Credential, hoaapi.CreatePaymentRequest{
		Amount:        amount,
		PaymentMethod: hoaapi.PaymentMethod(r.PostFormValue("payment_method")),
		Description:   r.PostFormValue("description"),
	})
	if err != nil {
		slogctx.Warn(r.Context(), "Could not create payment", "error", err)
		p.render(w, http.StatusBadGateway, "payments.html.tmpl", paymentsData{
			Session: s,
			Error:   "The payment could not be started. Please try again.",
		})
		return
	}

	if checkout.CheckoutURL != "" {
		http.Redirect(w, r, checkout.CheckoutURL, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

func (p *Portal) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	s, _ := guard.SessionFromContext(r.Context())

	id := r.PathValue("id")
	if err := p.api.MarkNotificationRead(r.Context(), s.Credential, id); err != nil {
		slogctx.Warn(r.Context(), "Could not mark notification read", "notification_id", id, "error", err)
	}

	http.Redirect(w, r, p.landingPath, http.StatusSeeOther)
}
