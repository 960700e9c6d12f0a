package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/middleware/responsewriter"
)

const (
	attrRequestID = "request_id"
	attrOperation = "operation"
	attrStatus    = "status"
)

var (
	counter metric.Int64Counter
	hist    metric.Int64Histogram
)

func appAttributes(app config.Application, extra ...attribute.KeyValue) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("application", app.Name),
		attribute.String("environment", app.Environment),
	}

	return append(attrs, extra...)
}

func initMeters(ctx context.Context, cfg *config.Config) error {
	meter := otel.Meter(
		"barangay-connect/"+cfg.Application.Name,
		metric.WithInstrumentationVersion(otel.Version()),
		metric.WithInstrumentationAttributes(appAttributes(cfg.Application)...),
	)

	var err error

	counter, err = meter.Int64Counter(
		"http.request_count",
		metric.WithDescription("Incoming request count"),
		metric.WithUnit("request"),
	)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "creating request_count meter")
	}

	hist, err = meter.Int64Histogram(
		"http.duration",
		metric.WithDescription("Incoming end to end duration"),
		metric.WithUnit("milliseconds"),
	)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "creating duration meter")
	}

	return nil
}

// newMetricsMiddleware tags every request with a request id, opens a span and
// records the request count and duration.
func newMetricsMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	traceAttrs := appAttributes(cfg.Application)
	tracer := otel.Tracer("PortalHTTP", trace.WithInstrumentationAttributes(traceAttrs...))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operation := r.Method + " " + r.URL.Path

		ctx := slogctx.With(r.Context(),
			attrRequestID, uuid.NewString(),
			attrOperation, operation,
		)

		parentCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))

		ctx, span := tracer.Start(parentCtx, operation,
			trace.WithAttributes(appAttributes(cfg.Application, attribute.String(attrOperation, operation))...))
		defer span.End()

		rec := responsewriter.NewRecorder(w)

		requestStartTime := time.Now()
		defer func() {
			elapsedTime := time.Since(requestStartTime) / time.Millisecond

			attrs := metric.WithAttributes(
				appAttributes(cfg.Application,
					attribute.String(attrOperation, operation),
					attribute.Int(attrStatus, rec.Status()),
				)...,
			)

			counter.Add(ctx, 1, attrs)
			hist.Record(ctx, int64(elapsedTime), attrs)
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}
