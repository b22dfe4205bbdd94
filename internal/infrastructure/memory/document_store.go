package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// DocumentStore keeps collections in process memory, in insertion order.
// Used for local development and tests; nothing survives a restart.
type DocumentStore struct {
	logger *logrus.Logger

	mu          sync.RWMutex
	collections map[string][]repository.Document
	watchers    map[string]map[*watch]struct{}
}

func NewDocumentStore(logger *logrus.Logger) *DocumentStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DocumentStore{
		logger:      logger,
		collections: map[string][]repository.Document{},
		watchers:    map[string]map[*watch]struct{}{},
	}
}

func (s *DocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], repository.Document{ID: id, Data: repository.CloneData(data)})
	s.mu.Unlock()
	s.signal(collection)
	return id, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	docs := s.collections[collection]
	idx := indexOf(docs, id)
	if idx < 0 {
		s.mu.Unlock()
		return repository.ErrDocumentNotFound
	}
	data := repository.CloneData(docs[idx].Data)
	for k, v := range fields {
		data[k] = v
	}
	// snapshots already handed out share the old map
	docs[idx] = repository.Document{ID: id, Data: data}
	s.mu.Unlock()
	s.signal(collection)
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	docs := s.collections[collection]
	idx := indexOf(docs, id)
	if idx < 0 {
		s.mu.Unlock()
		return repository.ErrDocumentNotFound
	}
	s.collections[collection] = append(docs[:idx:idx], docs[idx+1:]...)
	s.mu.Unlock()
	s.signal(collection)
	return nil
}

// Watch delivers an initial snapshot and then one snapshot per observed
// change. Bursts of writes may be coalesced into a single snapshot.
// Cancelling ctx ends the watch like Close does. The in-memory backend never
// fails, so onError is not called.
func (s *DocumentStore) Watch(ctx context.Context, collection string, onSnapshot repository.SnapshotFunc, _ repository.ErrorFunc) (repository.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &watch{
		store:      s,
		collection: collection,
		onSnapshot: onSnapshot,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.mu.Lock()
	if s.watchers[collection] == nil {
		s.watchers[collection] = map[*watch]struct{}{}
	}
	s.watchers[collection][w] = struct{}{}
	s.mu.Unlock()

	w.wake <- struct{}{}
	go w.run(ctx)
	s.logger.WithField("collection", collection).Debug("memory watch started")
	return w, nil
}

func (s *DocumentStore) snapshot(collection string) []repository.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]repository.Document(nil), s.collections[collection]...)
}

func (s *DocumentStore) signal(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for w := range s.watchers[collection] {
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

func (s *DocumentStore) forget(w *watch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[w.collection], w)
	if len(s.watchers[w.collection]) == 0 {
		delete(s.watchers, w.collection)
	}
}

func indexOf(docs []repository.Document, id string) int {
	for i, d := range docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

type watch struct {
	store      *DocumentStore
	collection string
	onSnapshot repository.SnapshotFunc

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// run is the only goroutine that calls onSnapshot for this watch, so
// snapshots arrive in the order they were taken.
func (w *watch) run(ctx context.Context) {
	defer close(w.done)
	defer w.store.forget(w)

	var prev []repository.Document
	first := true
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-w.wake:
		}
		docs := w.store.snapshot(w.collection)
		changes := repository.Diff(prev, docs)
		if !first && len(changes) == 0 {
			continue
		}
		first = false
		prev = docs
		if w.onSnapshot != nil {
			w.onSnapshot(repository.Snapshot{Docs: docs, Changes: changes})
		}
	}
}

// Close stops delivery and waits for an in-flight callback to return.
func (w *watch) Close() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}
