package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Gateway performs create/update/delete against the backing store. It never
// touches the cached items: the subscriber's next snapshot reflects writes.
type Gateway struct {
	store    repository.DocumentStore
	state    *State
	router   *ViewRouter
	notifier Notifier
	events   EventPublisher
	logger   *logrus.Logger
	appID    string

	now func() time.Time
}

func NewGateway(store repository.DocumentStore, state *State, router *ViewRouter, notifier Notifier, events EventPublisher, logger *logrus.Logger, appID string) *Gateway {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = discardLogger
	}
	return &Gateway{
		store:    store,
		state:    state,
		router:   router,
		notifier: notifier,
		events:   events,
		logger:   logger,
		appID:    appID,
		now:      time.Now,
	}
}

// Create writes a new record and navigates home on success.
func (g *Gateway) Create(ctx context.Context, in entity.ItemInput) (string, error) {
	sess, ok := g.state.Session()
	if !ok {
		return "", ErrNoSession
	}
	record := NewRecord(in, g.now())
	id, err := g.store.Add(ctx, g.collection(sess), record)
	if err != nil {
		g.fail(err, "error adding document", "Failed to add item.", "")
		return "", err
	}
	g.logger.WithField("item_id", id).Info("document added")
	g.notify("Item added successfully.", SeveritySuccess)
	g.publish(ctx, EventItemCreated, sess, id, record)
	g.router.Navigate(entity.ViewHome)
	return id, nil
}

// Update overwrites only the supplied fields and navigates home on success.
func (g *Gateway) Update(ctx context.Context, id string, patch entity.ItemPatch) error {
	sess, ok := g.state.Session()
	if !ok {
		return ErrNoSession
	}
	if id == "" {
		return ErrMissingID
	}
	fields := UpdateFields(patch)
	if err := g.store.Update(ctx, g.collection(sess), id, fields); err != nil {
		g.fail(err, "error updating document", "Failed to update item.", id)
		return err
	}
	g.logger.WithField("item_id", id).Info("document updated")
	g.notify("Item updated successfully.", SeveritySuccess)
	g.publish(ctx, EventItemUpdated, sess, id, fields)
	g.router.Navigate(entity.ViewHome)
	return nil
}

// Delete removes the record. Confirmation is the caller's business.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	sess, ok := g.state.Session()
	if !ok {
		return ErrNoSession
	}
	if id == "" {
		return ErrMissingID
	}
	if err := g.store.Delete(ctx, g.collection(sess), id); err != nil {
		g.fail(err, "error deleting document", "Failed to delete item.", id)
		return err
	}
	g.logger.WithField("item_id", id).Info("document deleted")
	g.notify("Item deleted successfully.", SeveritySuccess)
	g.publish(ctx, EventItemDeleted, sess, id, nil)
	return nil
}

// NewRecord builds the full record for a new item, coercing numbers and
// stamping createdAt.
func NewRecord(in entity.ItemInput, now time.Time) map[string]any {
	return map[string]any{
		"name":        in.Name,
		"quantity":    CoerceQuantity(string(in.Quantity)),
		"price":       CoerceNumber(string(in.Price)),
		"description": in.Description,
		"category":    in.Category,
		"createdAt":   now.UTC().Format(isoMillis),
	}
}

// UpdateFields builds the partial record for a patch, coercing numbers.
// createdAt is never part of an update.
func UpdateFields(p entity.ItemPatch) map[string]any {
	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Quantity != nil {
		fields["quantity"] = CoerceQuantity(string(*p.Quantity))
	}
	if p.Price != nil {
		fields["price"] = CoerceNumber(string(*p.Price))
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	return fields
}

func (g *Gateway) collection(sess entity.Session) string {
	return repository.InventoryCollection(g.appID, sess.UserID)
}

func (g *Gateway) fail(err error, logMsg, userMsg, id string) {
	metricCRUDFailures.Add(1)
	entry := g.logger.WithError(err)
	if id != "" {
		entry = entry.WithField("item_id", id)
	}
	entry.Error(logMsg)
	g.notify(userMsg, SeverityError)
}

func (g *Gateway) notify(msg string, sev Severity) {
	if g.notifier != nil {
		g.notifier.Notify(msg, sev)
	}
}

func (g *Gateway) publish(ctx context.Context, typ string, sess entity.Session, id string, fields map[string]any) {
	ev := ItemEvent{
		Type:       typ,
		AppID:      g.appID,
		UserID:     sess.UserID,
		ItemID:     id,
		Fields:     fields,
		OccurredAt: g.now().UTC(),
	}
	if err := g.events.Publish(ctx, ev); err != nil {
		g.logger.WithError(err).WithField("event", typ).Warn("failed to publish item event")
	}
}
