package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// NotifyChannel is the channel the documents trigger notifies with the
// changed collection as payload.
const NotifyChannel = "document_changes"

// DocumentStore keeps collections in the documents table and turns
// LISTEN/NOTIFY into snapshot streams.
type DocumentStore struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewDocumentStore(pool *pgxpool.Pool, logger *logrus.Logger) *DocumentStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DocumentStore{pool: pool, logger: logger}
}

func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
	`, collection, id, data)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update merges fields into the stored body; keys not in fields are kept.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, collection, id, fields)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.pool.Exec(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrDocumentNotFound
	}
	return nil
}

// List returns the collection in insertion order.
func (s *DocumentStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	return list(ctx, s.pool, collection)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func list(ctx context.Context, q querier, collection string) ([]repository.Document, error) {
	rows, err := q.Query(ctx, `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY seq
	`, collection)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Document, error) {
		var d repository.Document
		err := row.Scan(&d.ID, &d.Data)
		return d, err
	})
}

// Watch holds one pooled connection in LISTEN mode for the lifetime of the
// subscription. The first snapshot lists the collection as it is once the
// listener is in place; later snapshots are sent only when the listing
// actually changed.
func (s *DocumentStore) Watch(ctx context.Context, collection string, onSnapshot repository.SnapshotFunc, onError repository.ErrorFunc) (repository.Subscription, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
		conn.Release()
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	w := &watch{
		conn:       conn,
		collection: collection,
		onSnapshot: onSnapshot,
		onError:    onError,
		logger:     s.logger.WithField("collection", collection),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go w.run(wctx)
	return w, nil
}

type watch struct {
	conn       *pgxpool.Conn
	collection string
	onSnapshot repository.SnapshotFunc
	onError    repository.ErrorFunc
	logger     *logrus.Entry

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (w *watch) run(ctx context.Context) {
	defer close(w.done)
	defer w.release()
	defer w.cancel()

	var prev []repository.Document
	first := true
	for {
		docs, err := list(ctx, w.conn, w.collection)
		if err != nil {
			w.fail(ctx, fmt.Errorf("list %s: %w", w.collection, err))
			return
		}
		changes := repository.Diff(prev, docs)
		if first || len(changes) > 0 {
			first = false
			prev = docs
			if w.onSnapshot != nil {
				w.onSnapshot(repository.Snapshot{Docs: docs, Changes: changes})
			}
		}
		if err := w.waitForCollection(ctx); err != nil {
			w.fail(ctx, err)
			return
		}
	}
}

// waitForCollection blocks until a notification names this collection.
func (w *watch) waitForCollection(ctx context.Context) error {
	for {
		n, err := w.conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if n.Payload == w.collection {
			return nil
		}
	}
}

func (w *watch) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	w.logger.WithError(err).Error("document watch failed")
	if w.onError != nil {
		w.onError(err)
	}
}

func (w *watch) release() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := w.conn.Exec(ctx, "UNLISTEN *"); err != nil {
		// a connection still listening must not go back to the pool
		_ = w.conn.Hijack().Close(ctx)
		return
	}
	w.conn.Release()
}

// Close stops delivery and waits for an in-flight callback to return.
func (w *watch) Close() {
	w.closeOnce.Do(w.cancel)
	<-w.done
}
