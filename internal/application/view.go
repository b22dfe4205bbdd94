package application

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

// ViewListener performs the screen-specific show/hide for a navigation.
type ViewListener func(from, to entity.View)

// ViewRouter tracks the current screen. There is no history stack.
type ViewRouter struct {
	state  *State
	logger *logrus.Logger

	mu        sync.RWMutex
	listeners []ViewListener
}

func NewViewRouter(state *State, logger *logrus.Logger) *ViewRouter {
	if logger == nil {
		logger = discardLogger
	}
	return &ViewRouter{state: state, logger: logger}
}

func (r *ViewRouter) OnNavigate(l ViewListener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// Navigate overwrites the current view.
func (r *ViewRouter) Navigate(v entity.View) {
	r.navigate(v, "")
}

func (r *ViewRouter) Current() entity.View { return r.state.View() }

// Edit opens the edit view for a cached item.
func (r *ViewRouter) Edit(id string) (entity.Item, error) {
	if id == "" {
		return entity.Item{}, ErrMissingID
	}
	it, ok := r.state.Items().Find(id)
	if !ok {
		return entity.Item{}, ErrItemNotFound
	}
	r.navigate(entity.ViewEdit, id)
	return it, nil
}

// EditTarget returns the item being edited, if it is still cached.
func (r *ViewRouter) EditTarget() (entity.Item, bool) {
	if r.state.View() != entity.ViewEdit {
		return entity.Item{}, false
	}
	return r.state.Items().Find(r.state.EditID())
}

func (r *ViewRouter) navigate(v entity.View, editID string) {
	prev := r.state.setView(v, editID)
	r.logger.WithField("view", string(v)).Debug("navigating")
	r.mu.RLock()
	listeners := append([]ViewListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, l := range listeners {
		l(prev, v)
	}
}
