package sessionmemory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangay-connect/member-portal/internal/hoaapi"
	"github.com/barangay-connect/member-portal/internal/serviceerr"
	"github.com/barangay-connect/member-portal/internal/session"
)

func testSession(id string) session.Session {
	return session.Session{
		ID:         id,
		UserID:     "user-1",
		Email:      "maria@example.com",
		Credential: hoaapi.Credential{Kind: hoaapi.CredentialBearer, Secret: "token"},
		Expiry:     time.Now().Add(time.Hour),
	}
}

func TestRepository_Sessions(t *testing.T) {
	repo := NewRepository(time.Minute)

	_, err := repo.LoadSession(t.Context(), "missing")
	require.ErrorIs(t, err, serviceerr.ErrNotFound)

	stored := testSession("sess-1")
	require.NoError(t, repo.StoreSession(t.Context(), stored))

	loaded, err := repo.LoadSession(t.Context(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, stored.Credential, loaded.Credential)

	require.NoError(t, repo.StoreSession(t.Context(), testSession("sess-2")))
	sessions, err := repo.ListSessions(t.Context())
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	require.NoError(t, repo.DeleteSession(t.Context(), "sess-1"))
	_, err = repo.LoadSession(t.Context(), "sess-1")
	require.ErrorIs(t, err, serviceerr.ErrNotFound)
}

func TestRepository_ClaimTicket(t *testing.T) {
	repo := NewRepository(time.Minute)

	require.NoError(t, repo.ClaimTicket(t.Context(), "ticket-1", time.Minute))

	err := repo.ClaimTicket(t.Context(), "ticket-1", time.Minute)
	require.ErrorIs(t, err, serviceerr.ErrConflict)

	// A different ticket is unaffected.
	require.NoError(t, repo.ClaimTicket(t.Context(), "ticket-2", time.Minute))
}
