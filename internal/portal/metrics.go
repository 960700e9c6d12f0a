package portal

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod  = "method"
	attrOutcome = "outcome"

	signInPassword = "password"
	signInRegister = "register"
	signInTicket   = "ticket"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

func newSignInCounter() (metric.Int64Counter, error) {
	meter := otel.Meter("barangay-connect/member-portal",
		metric.WithInstrumentationVersion(otel.Version()))

	return meter.Int64Counter(
		"portal.sign_in_count",
		metric.WithDescription("Sign-in attempts by method and outcome"),
		metric.WithUnit("attempt"),
	)
}

// recordSignIn counts one sign-in attempt. The method names the flow
// (password, register, ticket); the outcome is success or failure.
func (p *Portal) recordSignIn(ctx context.Context, method string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}

	p.signIns.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrOutcome, outcome),
	))
}
