// Package status serves the liveness and readiness probes on a dedicated
// address, away from the member-facing listener.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
)

const checkTimeout = 5 * time.Second

// Checker reports whether one dependency is ready. The name shows up in the
// readiness response body.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Start runs the status server until the context is cancelled. Liveness
// always answers 200; readiness runs the checkers and answers 503 when any
// of them fails.
func Start(ctx context.Context, cfg *config.Config, checkers ...Checker) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /probe/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"up"}`))
	})
	mux.HandleFunc("GET /probe/readiness", readinessHandler(checkers))

	server := &http.Server{
		Addr:    cfg.Status.Address,
		Handler: mux,
	}

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return oops.In("Status Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	slogctx.Info(ctx, "Serving the status server", "address", listener.Addr().String())

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve the status server", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), checkTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("Status Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down the status server")
	}

	return nil
}

func readinessHandler(checkers []Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		result := make(map[string]string, len(checkers))
		ready := true
		for _, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				slogctx.Warn(ctx, "Readiness check failed", "check", checker.Name, "error", err)
				result[checker.Name] = "down"
				ready = false
				continue
			}
			result[checker.Name] = "up"
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(result)
	}
}
