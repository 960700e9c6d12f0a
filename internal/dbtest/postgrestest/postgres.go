package postgrestest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"

	slogctx "github.com/veqryn/slog-context"

	migrations "github.com/barangay-connect/member-portal/sql"
)

const (
	DBHost     = "localhost"
	DBUser     = "postgres"
	DBPassword = "secret"
	DBName     = "member_portal"
	DBSSLMode  = "disable"
)

// ExpiryTime is the time used as "expiry" for the inserted data.
// Truncated to microseconds so values round-trip a timestamptz column unchanged.
//
//nolint:gosmopolitan
var ExpiryTime = time.Now().Add(7 * 24 * time.Hour).Truncate(time.Microsecond).Local()

// Start initialises a database instance and returns a connection pool, database port, and termination function.
//
// Database credentials are available as exported variables.
// The database contains pre-defined test data. See INSERT statements in the prepareDB.
func Start(ctx context.Context) (*pgxpool.Pool, nat.Port, func(ctx context.Context)) {
	pgContainer, err := postgres.Run(
		ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(DBName),
		postgres.WithUsername(DBUser),
		postgres.WithPassword(DBPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		slogctx.Error(ctx, "Failed to start PostgreSQL", slog.String("error", err.Error()))
		panic(err)
	}

	port, err := pgContainer.MappedPort(ctx, nat.Port("5432"))
	if err != nil {
		slogctx.Error(ctx, "Failed to get mapped port for the PosgtgreSQL container", slog.String("error", err.Error()))
		panic(err)
	}

	dbPool := makeDBConn(ctx, port)
	prepareDB(ctx, dbPool, port)

	terminate := func(ctx context.Context) {
		if err := pgContainer.Terminate(ctx); err != nil {
			slogctx.Error(ctx, "Failed to terminate PosgtgreSQL container", slog.String("error", err.Error()))
			panic(err)
		}
	}

	return dbPool, port, terminate
}

func connStr(port nat.Port) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", DBHost, DBUser, DBPassword, DBName, port.Port(), DBSSLMode)
}

func makeDBConn(ctx context.Context, port nat.Port) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, connStr(port))
	if err != nil {
		panic(err)
	}

	return pool
}

func migrateDB(ctx context.Context, port nat.Port) {
	db, err := sql.Open("pgx", connStr(port))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("pgx"); err != nil {
		panic(err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		panic(err)
	}
}

func prepareDB(ctx context.Context, dbPool *pgxpool.Pool, port nat.Port) {
	migrateDB(ctx, port)

	b := new(pgx.Batch)
	b.Queue(`INSERT INTO sessions (id, user_id, email, name, role, unit_number, picture, credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited)
VALUES ('sessionid-one', 'userid-one', 'maria@example.com', 'Maria Santos', 'resident', 'B-204', '', 'bearer', 'token-one', 'fingerprint-one', 'csrf-one', $1, $1);`, ExpiryTime)
	b.Queue(`INSERT INTO sessions (id, user_id, email, name, role, unit_number, picture, credential_kind, credential_secret, fingerprint, csrf_token, expiry, last_visited)
VALUES ('sessionid-two', 'userid-two', 'jose@example.com', 'Jose Rizal', 'board_member', 'A-101', '', 'cookie', 'cookie-two', 'fingerprint-two', 'csrf-two', $1, $1);`, ExpiryTime)
	b.Queue(`INSERT INTO ticket_claims (ticket, claimed_at, purge_after) VALUES ('ticket-claimed', now(), $1);`, ExpiryTime)
	b.Queue(`INSERT INTO ticket_claims (ticket, claimed_at, purge_after) VALUES ('ticket-stale', now() - interval '1 day', now() - interval '1 hour');`)

	res := dbPool.SendBatch(ctx, b)
	if err := res.Close(); err != nil {
		panic(err)
	}
}
