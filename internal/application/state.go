package application

import (
	"sync"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

// State is the process-wide application state: the session, the current
// view, and the cached items. All mutation goes through its methods.
type State struct {
	mu      sync.RWMutex
	session *entity.Session
	view    entity.View
	editID  string
	items   *ItemStore
}

func NewState() *State {
	return &State{view: entity.ViewHome, items: NewItemStore()}
}

func (s *State) Session() (entity.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return entity.Session{}, false
	}
	return *s.session, true
}

// SetSession records the resolved session once. Setting the same user again
// is a no-op; a different user is rejected.
func (s *State) SetSession(sess entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		if s.session.UserID == sess.UserID {
			return nil
		}
		return ErrSessionAlreadySet
	}
	s.session = &sess
	return nil
}

func (s *State) Items() *ItemStore { return s.items }

func (s *State) View() entity.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *State) EditID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editID
}

func (s *State) setView(v entity.View, editID string) entity.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.view
	s.view = v
	s.editID = editID
	return prev
}
