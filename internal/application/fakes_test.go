package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// mockDocumentStore records writes and lets tests push snapshots by hand,
// so the gap between a write and the next snapshot is under test control.
type mockDocumentStore struct {
	mu      sync.Mutex
	docs    map[string][]repository.Document
	nextID  int
	failErr error

	watches    []*mockWatch
	watchErr   error
	addCalls   int
	updateArgs []map[string]any
}

type mockWatch struct {
	collection string
	onSnapshot repository.SnapshotFunc
	onError    repository.ErrorFunc
	closed     bool
}

func (w *mockWatch) Close() { w.closed = true }

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: map[string][]repository.Document{}}
}

func (m *mockDocumentStore) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	if m.failErr != nil {
		return "", m.failErr
	}
	m.nextID++
	id := fmt.Sprintf("doc-%d", m.nextID)
	m.docs[collection] = append(m.docs[collection], repository.Document{ID: id, Data: repository.CloneData(data)})
	return id, nil
}

func (m *mockDocumentStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateArgs = append(m.updateArgs, fields)
	if m.failErr != nil {
		return m.failErr
	}
	for i, d := range m.docs[collection] {
		if d.ID == id {
			data := repository.CloneData(d.Data)
			for k, v := range fields {
				data[k] = v
			}
			m.docs[collection][i].Data = data
			return nil
		}
	}
	return repository.ErrDocumentNotFound
}

func (m *mockDocumentStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	docs := m.docs[collection]
	for i, d := range docs {
		if d.ID == id {
			m.docs[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return repository.ErrDocumentNotFound
}

func (m *mockDocumentStore) Watch(_ context.Context, collection string, onSnapshot repository.SnapshotFunc, onError repository.ErrorFunc) (repository.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	w := &mockWatch{collection: collection, onSnapshot: onSnapshot, onError: onError}
	m.watches = append(m.watches, w)
	return w, nil
}

func (m *mockDocumentStore) stored(collection string) []repository.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.Document(nil), m.docs[collection]...)
}

func (m *mockDocumentStore) lastWatch() *mockWatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.watches) == 0 {
		return nil
	}
	return m.watches[len(m.watches)-1]
}

// push delivers the current contents of the watched collection, with every
// document reported as changed.
func (m *mockDocumentStore) push(w *mockWatch) {
	docs := m.stored(w.collection)
	changes := make([]repository.DocumentChange, 0, len(docs))
	for _, d := range docs {
		changes = append(changes, repository.DocumentChange{Type: repository.ChangeAdded, Doc: d})
	}
	w.onSnapshot(repository.Snapshot{Docs: docs, Changes: changes})
}

type mockRenderer struct {
	mu     sync.Mutex
	frames [][]entity.Item
}

func (r *mockRenderer) Render(items []entity.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, items)
}

func (r *mockRenderer) last() ([]entity.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *mockRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type message struct {
	text     string
	severity Severity
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []message
}

func (n *mockNotifier) Notify(text string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message{text: text, severity: severity})
}

func (n *mockNotifier) all() []message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]message(nil), n.messages...)
}

type mockAuthBackend struct {
	mu          sync.Mutex
	tokenCalls  []string
	anonCalls   int
	uid         string
	err         error
	uidSequence []string
}

func (a *mockAuthBackend) SignInWithCustomToken(_ context.Context, token string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokenCalls = append(a.tokenCalls, token)
	return a.uid, a.err
}

func (a *mockAuthBackend) SignInAnonymously(context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.anonCalls++
	if a.err != nil {
		return "", a.err
	}
	if len(a.uidSequence) > 0 {
		uid := a.uidSequence[0]
		a.uidSequence = a.uidSequence[1:]
		return uid, nil
	}
	return a.uid, nil
}

func (a *mockAuthBackend) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anonCalls + len(a.tokenCalls)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []ItemEvent
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, ev ItemEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

var errBackendDown = errors.New("backend unreachable")
