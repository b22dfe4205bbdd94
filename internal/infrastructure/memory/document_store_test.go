package memory

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

const col = "artifacts/app/users/u1/inventory"

type recorder struct {
	mu    sync.Mutex
	snaps []repository.Snapshot
}

func (r *recorder) onSnapshot(s repository.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() repository.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func newStore() *DocumentStore {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewDocumentStore(l)
}

func ids(docs []repository.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Watch_InitialSnapshotReportsEverythingAdded", func(t *testing.T) {
		s := newStore()
		a, err := s.Add(ctx, col, map[string]any{"name": "a"})
		require.NoError(t, err)
		b, err := s.Add(ctx, col, map[string]any{"name": "b"})
		require.NoError(t, err)

		rec := &recorder{}
		sub, err := s.Watch(ctx, col, rec.onSnapshot, nil)
		require.NoError(t, err)
		defer sub.Close()

		require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)
		snap := rec.last()
		require.Equal(t, []string{a, b}, ids(snap.Docs))
		require.Len(t, snap.Changes, 2)
		for _, c := range snap.Changes {
			require.Equal(t, repository.ChangeAdded, c.Type)
		}
	})

	t.Run("Watch_EmptyCollectionStillDeliversFirstSnapshot", func(t *testing.T) {
		s := newStore()
		rec := &recorder{}
		sub, err := s.Watch(ctx, col, rec.onSnapshot, nil)
		require.NoError(t, err)
		defer sub.Close()

		require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)
		require.Empty(t, rec.last().Docs)
		require.Empty(t, rec.last().Changes)
	})

	t.Run("Watch_ReflectsWritesWithChanges", func(t *testing.T) {
		s := newStore()
		rec := &recorder{}
		sub, err := s.Watch(ctx, col, rec.onSnapshot, nil)
		require.NoError(t, err)
		defer sub.Close()
		require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)

		id, err := s.Add(ctx, col, map[string]any{"name": "a", "quantity": int64(1)})
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return len(rec.last().Docs) == 1
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, s.Update(ctx, col, id, map[string]any{"quantity": int64(5)}))
		require.Eventually(t, func() bool {
			snap := rec.last()
			return len(snap.Docs) == 1 && snap.Docs[0].Data["quantity"] == int64(5)
		}, time.Second, 5*time.Millisecond)
		snap := rec.last()
		require.Equal(t, "a", snap.Docs[0].Data["name"])
		require.Equal(t, repository.ChangeModified, snap.Changes[0].Type)

		require.NoError(t, s.Delete(ctx, col, id))
		require.Eventually(t, func() bool { return len(rec.last().Docs) == 0 }, time.Second, 5*time.Millisecond)
		require.Equal(t, repository.ChangeRemoved, rec.last().Changes[0].Type)
	})

	t.Run("Watch_IsolatedPerCollection", func(t *testing.T) {
		s := newStore()
		rec := &recorder{}
		sub, err := s.Watch(ctx, col, rec.onSnapshot, nil)
		require.NoError(t, err)
		defer sub.Close()
		require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)

		_, err = s.Add(ctx, "artifacts/app/users/u2/inventory", map[string]any{"name": "other"})
		require.NoError(t, err)
		require.Never(t, func() bool { return rec.len() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	})

	t.Run("Close_StopsDelivery", func(t *testing.T) {
		s := newStore()
		rec := &recorder{}
		sub, err := s.Watch(ctx, col, rec.onSnapshot, nil)
		require.NoError(t, err)
		require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)

		sub.Close()
		sub.Close()
		_, err = s.Add(ctx, col, map[string]any{"name": "late"})
		require.NoError(t, err)
		require.Never(t, func() bool { return rec.len() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	})

	t.Run("UpdateAndDelete_MissingDocument", func(t *testing.T) {
		s := newStore()
		require.ErrorIs(t, s.Update(ctx, col, "nope", map[string]any{"name": "x"}), repository.ErrDocumentNotFound)
		require.ErrorIs(t, s.Delete(ctx, col, "nope"), repository.ErrDocumentNotFound)
	})

	t.Run("Add_CopiesInput", func(t *testing.T) {
		s := newStore()
		data := map[string]any{"name": "a"}
		_, err := s.Add(ctx, col, data)
		require.NoError(t, err)
		data["name"] = "mutated"
		require.Equal(t, "a", s.snapshot(col)[0].Data["name"])
	})

	t.Run("CancelledContext", func(t *testing.T) {
		s := newStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Add(cctx, col, map[string]any{})
		require.ErrorIs(t, err, context.Canceled)
		_, err = s.Watch(cctx, col, func(repository.Snapshot) {}, nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}
