package credentials

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/config"
)

func openSQLStore(t *testing.T) Store {
	t.Helper()

	cfg := config.Default()
	cfg.Credentials.Store = config.CredentialStoreSQL
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "credentials.db")

	store, closeFn, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return store
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sql":    openSQLStore,
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			_, err := store.Get(ctx, "user-1")
			assert.ErrorIs(t, err, ErrNotFound)

			expiry := time.Now().Add(time.Hour).Truncate(time.Second)
			require.NoError(t, store.Put(ctx, "user-1", &oauth2.Token{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				TokenType:    "Bearer",
				Expiry:       expiry,
			}))

			tok, err := store.Get(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, "access-1", tok.AccessToken)
			assert.Equal(t, "refresh-1", tok.RefreshToken)
			assert.Equal(t, "Bearer", tok.TokenType)
			assert.True(t, expiry.Equal(tok.Expiry))

			// Put replaces.
			require.NoError(t, store.Put(ctx, "user-1", &oauth2.Token{AccessToken: "access-2", TokenType: "Bearer"}))
			tok, err = store.Get(ctx, "user-1")
			require.NoError(t, err)
			assert.Equal(t, "access-2", tok.AccessToken)
			assert.Empty(t, tok.RefreshToken)
			assert.True(t, tok.Expiry.IsZero())

			// Other users are unaffected by deletes.
			require.NoError(t, store.Put(ctx, "user-2", &oauth2.Token{AccessToken: "other"}))
			require.NoError(t, store.Delete(ctx, "user-1"))
			_, err = store.Get(ctx, "user-1")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = store.Get(ctx, "user-2")
			assert.NoError(t, err)

			// Deleting twice is fine.
			assert.NoError(t, store.Delete(ctx, "user-1"))
		})
	}
}

func TestSQLStoreSealsTokensAtRest(t *testing.T) {
	cfg := config.Default()
	cfg.Credentials.Store = config.CredentialStoreSQL
	cfg.Database.Path = filepath.Join(t.TempDir(), "credentials.db")

	store, closeFn, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	sqlStore, ok := store.(*SQLStore)
	require.True(t, ok)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "user-1", &oauth2.Token{AccessToken: "plain-access", RefreshToken: "plain-refresh"}))

	var raw credentialRow
	require.NoError(t, sqlStore.db.Get(&raw, "SELECT * FROM credentials WHERE user_id = ?", "user-1"))
	assert.NotContains(t, raw.AccessToken, "plain-access")
	assert.NotContains(t, raw.RefreshToken, "plain-refresh")
	assert.NotZero(t, raw.UpdatedAt)
}

func TestSealer(t *testing.T) {
	s, err := NewSealer("secret")
	require.NoError(t, err)

	sealed, err := s.Seal("ya29.token")
	require.NoError(t, err)
	assert.NotEqual(t, "ya29.token", sealed)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.token", opened)

	again, err := s.Seal("ya29.token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces differ between seals")

	empty, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSealerRejectsForeignCiphertext(t *testing.T) {
	a, err := NewSealer("key-a")
	require.NoError(t, err)
	b, err := NewSealer("key-b")
	require.NoError(t, err)

	sealed, err := a.Seal("token")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.Error(t, err)

	_, err = a.Open("not base64!")
	assert.Error(t, err)

	_, err = a.Open(strings.Repeat("A", 8))
	assert.Error(t, err)

	_, err = NewSealer("")
	assert.Error(t, err)
}

func TestOpenRejectsUnknownStore(t *testing.T) {
	cfg := config.Default()
	cfg.Credentials.Store = "vault"

	_, closeFn, err := Open(cfg)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestPrune(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	stores := map[string]func(t *testing.T, now *time.Time) Pruner{
		"memory": func(_ *testing.T, now *time.Time) Pruner {
			s := NewMemoryStore()
			s.now = func() time.Time { return *now }
			return s
		},
		"sql": func(t *testing.T, now *time.Time) Pruner {
			s, ok := openSQLStore(t).(*SQLStore)
			require.True(t, ok)
			s.now = func() time.Time { return *now }
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := base
			pruner := open(t, &now)
			store, ok := pruner.(Store)
			require.True(t, ok)

			require.NoError(t, store.Put(ctx, "stale", &oauth2.Token{AccessToken: "a"}))
			now = base.Add(48 * time.Hour)
			require.NoError(t, store.Put(ctx, "fresh", &oauth2.Token{AccessToken: "b"}))

			removed, err := pruner.Prune(ctx, base.Add(24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)

			_, err = store.Get(ctx, "stale")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = store.Get(ctx, "fresh")
			assert.NoError(t, err)
		})
	}
}
