package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// Subscriber keeps exactly one live watch on the session user's inventory
// and turns every non-empty snapshot into a full replace plus re-render.
type Subscriber struct {
	store    repository.DocumentStore
	state    *State
	renderer Renderer
	notifier Notifier
	logger   *logrus.Logger
	appID    string

	mu     sync.Mutex
	active repository.Subscription
	userID string
}

func NewSubscriber(store repository.DocumentStore, state *State, renderer Renderer, notifier Notifier, logger *logrus.Logger, appID string) *Subscriber {
	if logger == nil {
		logger = discardLogger
	}
	return &Subscriber{
		store:    store,
		state:    state,
		renderer: renderer,
		notifier: notifier,
		logger:   logger,
		appID:    appID,
	}
}

// Attach opens the watch for sess. A watch for another user is torn down
// first; attaching twice for the same user keeps the existing watch.
func (s *Subscriber) Attach(ctx context.Context, sess entity.Session) error {
	if sess.UserID == "" {
		return ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		if s.userID == sess.UserID {
			return nil
		}
		s.active.Close()
		s.active = nil
		s.userID = ""
		// the new user's first snapshot may carry no changes
		s.clear()
	}

	collection := repository.InventoryCollection(s.appID, sess.UserID)
	sub, err := s.store.Watch(ctx, collection, s.handleSnapshot, s.handleError)
	if err != nil {
		s.handleError(err)
		return err
	}
	s.active = sub
	s.userID = sess.UserID
	s.logger.WithField("collection", collection).Info("listening for inventory changes")
	return nil
}

// Detach closes the active watch, if any.
func (s *Subscriber) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Close()
		s.active = nil
		s.userID = ""
	}
}

// Active reports the user id of the current watch.
func (s *Subscriber) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.active != nil
}

func (s *Subscriber) handleSnapshot(snap repository.Snapshot) {
	if len(snap.Changes) == 0 {
		metricSnapshotsSkipped.Add(1)
		s.logger.Debug("no new changes in inventory data")
		return
	}
	items := s.state.Items().Replace(snap.Docs)
	metricSnapshotsApplied.Add(1)
	s.logger.WithFields(logrus.Fields{
		"total":   len(items),
		"changes": len(snap.Changes),
	}).Info("inventory data updated")
	if s.renderer != nil {
		s.renderer.Render(items)
		metricRenders.Add(1)
	}
}

func (s *Subscriber) clear() {
	items := s.state.Items().Replace(nil)
	if s.renderer != nil {
		s.renderer.Render(items)
		metricRenders.Add(1)
	}
}

func (s *Subscriber) handleError(err error) {
	s.logger.WithError(err).Error("error listening to inventory data")
	if s.notifier != nil {
		s.notifier.Notify("Failed to load realtime data.", SeverityError)
	}
}
