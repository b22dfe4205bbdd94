package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolve_ExchangesInitialToken", func(t *testing.T) {
		backend := &mockAuthBackend{uid: "user-from-token"}
		r := NewIdentityResolver(backend, "signed-token", quietLogger())

		sess := r.Resolve(ctx)
		require.Equal(t, "user-from-token", sess.UserID)
		require.False(t, sess.Anonymous)
		require.False(t, sess.Fallback)
		require.Equal(t, []string{"signed-token"}, backend.tokenCalls)
		require.Zero(t, backend.anonCalls)
	})

	t.Run("Resolve_SignsInAnonymouslyWithoutToken", func(t *testing.T) {
		backend := &mockAuthBackend{uid: "anon-1"}
		r := NewIdentityResolver(backend, "", quietLogger())

		sess := r.Resolve(ctx)
		require.Equal(t, "anon-1", sess.UserID)
		require.True(t, sess.Anonymous)
		require.Equal(t, 1, backend.anonCalls)
	})

	t.Run("Resolve_FallsBackToLocalIDOnFailure", func(t *testing.T) {
		backend := &mockAuthBackend{err: errBackendDown}
		r := NewIdentityResolver(backend, "", quietLogger())
		r.newID = func() string { return "local-id" }

		sess := r.Resolve(ctx)
		require.Equal(t, "local-id", sess.UserID)
		require.True(t, sess.Fallback)
		require.Equal(t, 1, backend.calls(), "no retry after a failed attempt")
	})

	t.Run("Resolve_FallsBackWithoutBackend", func(t *testing.T) {
		r := NewIdentityResolver(nil, "", quietLogger())
		sess := r.Resolve(ctx)
		require.NotEmpty(t, sess.UserID)
		require.True(t, sess.Fallback)
	})

	t.Run("Resolve_EmptyUIDFallsBack", func(t *testing.T) {
		r := NewIdentityResolver(&mockAuthBackend{uid: ""}, "", quietLogger())
		r.newID = func() string { return "local" }
		require.Equal(t, "local", r.Resolve(ctx).UserID)
	})

	t.Run("Resolve_TwiceKeepsFirstIdentity", func(t *testing.T) {
		backend := &mockAuthBackend{uidSequence: []string{"first", "second"}}
		r := NewIdentityResolver(backend, "", quietLogger())

		require.Equal(t, "first", r.Resolve(ctx).UserID)
		require.Equal(t, "first", r.Resolve(ctx).UserID)
		require.Equal(t, 1, backend.anonCalls)
	})

	t.Run("Resolve_ConcurrentCallersShareOneIdentity", func(t *testing.T) {
		backend := &mockAuthBackend{uidSequence: []string{"a", "b", "c", "d"}}
		r := NewIdentityResolver(backend, "", quietLogger())

		var wg sync.WaitGroup
		ids := make([]string, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i] = r.Resolve(ctx).UserID
			}(i)
		}
		wg.Wait()
		for _, id := range ids {
			require.Equal(t, ids[0], id)
		}
		require.Equal(t, 1, backend.anonCalls)
	})

	t.Run("Session_UnavailableBeforeResolve", func(t *testing.T) {
		r := NewIdentityResolver(&mockAuthBackend{uid: "u"}, "", quietLogger())
		_, ok := r.Session()
		require.False(t, ok)
		r.Resolve(ctx)
		sess, ok := r.Session()
		require.True(t, ok)
		require.Equal(t, "u", sess.UserID)
	})
}
