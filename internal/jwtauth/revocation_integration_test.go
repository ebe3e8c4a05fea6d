//go:build integration

package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"precinct/pkg/testutil/containers"
)

func TestRedisRevocationStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := NewRedisRevocationStore(rc.Client)

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := store.IsTokenRevoked(ctx, "never-seen")
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revoked jti is reported until expiry", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

		revoked, err := store.IsTokenRevoked(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-short", 100*time.Millisecond))

		require.Eventually(t, func() bool {
			revoked, err := store.IsTokenRevoked(ctx, "jti-short")
			return err == nil && !revoked
		}, 2*time.Second, 50*time.Millisecond)
	})

	t.Run("expired token needs no record", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-expired", -time.Minute))

		revoked, err := store.IsTokenRevoked(ctx, "jti-expired")
		require.NoError(t, err)
		require.False(t, revoked)
	})
}
