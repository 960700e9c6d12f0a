// Package business wires configuration, storage, the Core API client and the
// portal together into runnable entry points.
package business

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/barangay-connect/member-portal/internal/business/server"
	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/portal"
	"github.com/barangay-connect/member-portal/internal/session"
	sessionmemory "github.com/barangay-connect/member-portal/internal/session/memory"
	sessionsql "github.com/barangay-connect/member-portal/internal/session/sql"
	sessionvalkey "github.com/barangay-connect/member-portal/internal/session/valkey"
)

const memoryCleanupInterval = time.Minute

// Main starts the member-facing portal server.
func Main(ctx context.Context, cfg *config.Config) error {
	manager, apiClient, closeFn, err := initSessionManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}
	defer closeFn()

	p, err := portal.New(manager, apiClient, cfg.Portal)
	if err != nil {
		return fmt.Errorf("initialising the portal: %w", err)
	}

	return server.StartHTTPServer(ctx, cfg, p.Router())
}

// HousekeeperMain runs the periodic cleanup of idle sessions and expired
// ticket claims.
func HousekeeperMain(ctx context.Context, cfg *config.Config) error {
	manager, _, closeFn, err := initSessionManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the session manager: %w", err)
	}
	defer closeFn()

	c := time.Tick(cfg.Housekeeper.TriggerInterval)
	for {
		slogctx.Info(ctx, "Triggering session housekeeping")
		if err := manager.CleanupIdleSessions(ctx, cfg.Housekeeper.IdleTimeout); err != nil {
			slogctx.Error(ctx, "Error during session cleanup", "error", err)
		}
		if err := manager.PurgeExpiredTickets(ctx); err != nil {
			slogctx.Error(ctx, "Error during ticket purge", "error", err)
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}

func initSessionManager(ctx context.Context, cfg *config.Config) (_ *session.Manager, _ *hoaapi.Client, closeFn func(), _ error) {
	repo, closeFn, err := initSessionRepository(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialising the session repository: %w", err)
	}

	apiClient, err := hoaapi.NewClient(cfg.CoreAPI, nil)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("creating the core api client: %w", err)
	}

	manager, err := session.NewManager(repo, apiClient, cfg.Portal)
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("creating the session manager: %w", err)
	}

	return manager, apiClient, closeFn, nil
}

func initSessionRepository(ctx context.Context, cfg *config.Config) (session.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageValKey:
		valkeyClient, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.ValKey.Host},
			Username:    cfg.ValKey.User,
			Password:    cfg.ValKey.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating a new valkey client: %w", err)
		}

		return sessionvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix), valkeyClient.Close, nil

	case config.StoragePostgres:
		poolCfg, err := pgxpool.ParseConfig(config.MakeConnStr(cfg.Database))
		if err != nil {
			return nil, nil, fmt.Errorf("parsing pgxpool config: %w", err)
		}
		poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

		db, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("initialising pgxpool connection: %w", err)
		}

		return sessionsql.NewRepository(db), db.Close, nil

	case config.StorageMemory:
		slogctx.Warn(ctx, "Using the in-memory session store; sessions will not survive a restart")
		return sessionmemory.NewRepository(memoryCleanupInterval), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
