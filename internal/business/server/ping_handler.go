package server

import (
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/config"
)

func pingHandlerFunc(_ *config.Config) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		slogctx.Info(ctx, "Starting ping request")

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{ "result": "ping" }`))
		if err != nil {
			return
		}

		slogctx.Info(ctx, "Finished ping request")
	}
}
