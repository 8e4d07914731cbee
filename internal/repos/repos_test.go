package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rjcreations/internal/domain"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStoreErr(t *testing.T) {
	other := errors.New("connection reset")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), domain.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, domain.ErrConflict},
		{"wrapped pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrConflict},
		{"pg fk violation", &pgconn.PgError{Code: "23503"}, nil},
		{"other", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := storeErr(tc.in)
			if tc.want == nil {
				assert.Same(t, tc.in, got)
				assert.NotErrorIs(t, got, domain.ErrConflict)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
	assert.NoError(t, storeErr(nil))

	got := storeErr(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.Contains(t, got.Error(), "users_email_key")
}

func TestUserRepo_SQLiteUniqueIsConflict(t *testing.T) {
	r := NewUserRepo(memdb(t))
	ctx := context.Background()

	_, err := r.Create(ctx, domain.User{Email: "a@example.com", Hash: "h"})
	require.NoError(t, err)
	_, err = r.Create(ctx, domain.User{Email: "a@example.com", Hash: "h2"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// exact match only
	_, err = r.ByEmail(ctx, "A@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedAdmin(t *testing.T) {
	db := memdb(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	promoted, err := SeedAdmin(ctx, db, "root@example.com", "seed-hash")
	require.NoError(t, err)
	assert.False(t, promoted)
	u, err := users.ByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "seed-hash", u.Hash)

	promoted, err = SeedAdmin(ctx, db, "root@example.com", "other-hash")
	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestSeedAdmin_PromotesExistingUser(t *testing.T) {
	db := memdb(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	_, err := users.Create(ctx, domain.User{Email: "shop@example.com", Hash: "own-hash"})
	require.NoError(t, err)

	promoted, err := SeedAdmin(ctx, db, "shop@example.com", "seed-hash")
	require.NoError(t, err)
	assert.True(t, promoted)

	u, err := users.ByEmail(ctx, "shop@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "own-hash", u.Hash)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, n)
}

func TestIntentRepo_RoundTripAndReplace(t *testing.T) {
	r := NewIntentRepo(memdb(t))
	ctx := context.Background()

	_, err := r.GetIntent(ctx, "s1", "1:1|1599")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in := domain.PaymentIntent{OrderID: "order_a", Amount: 1599, Currency: "INR", AutoCapture: true}
	require.NoError(t, r.PutIntent(ctx, "s1", "1:1|1599", in))
	got, err := r.GetIntent(ctx, "s1", "1:1|1599")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	require.NoError(t, r.PutIntent(ctx, "s1", "1:2|3198", domain.PaymentIntent{OrderID: "order_b", Amount: 3198, Currency: "INR"}))
	_, err = r.GetIntent(ctx, "s1", "1:1|1599")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntentRepo_ExpiredRowIsMissAndPruned(t *testing.T) {
	db := memdb(t)
	r := NewIntentRepo(db)
	ctx := context.Background()
	in := domain.PaymentIntent{OrderID: "order_old", Amount: 1599, Currency: "INR"}

	require.NoError(t, r.PutIntent(ctx, "old", "1:1|1599", in))
	_, err := db.Exec(`UPDATE checkout_intents SET created_at = '2020-01-01 00:00:00'`)
	require.NoError(t, err)

	_, err = r.GetIntent(ctx, "old", "1:1|1599")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.PutIntent(ctx, "new", "2:1|2000", in))
	var sessions []string
	require.NoError(t, db.Select(&sessions, `SELECT session_id FROM checkout_intents`))
	assert.Equal(t, []string{"new"}, sessions)
}

func TestIntentRepo_TTLFollowsClock(t *testing.T) {
	r := NewIntentRepo(memdb(t))
	ctx := context.Background()
	require.NoError(t, r.PutIntent(ctx, "s1", "fp", domain.PaymentIntent{OrderID: "order_a"}))

	r.now = func() time.Time { return time.Now().Add(r.TTL - time.Minute) }
	_, err := r.GetIntent(ctx, "s1", "fp")
	assert.NoError(t, err)

	r.now = func() time.Time { return time.Now().Add(r.TTL + time.Minute) }
	_, err = r.GetIntent(ctx, "s1", "fp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
