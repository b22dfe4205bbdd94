package application

import (
	"context"
	"time"
)

const (
	EventItemCreated = "item.created"
	EventItemUpdated = "item.updated"
	EventItemDeleted = "item.deleted"
)

// ItemEvent is emitted after a successful write to the store.
type ItemEvent struct {
	Type       string         `json:"type"`
	AppID      string         `json:"app_id"`
	UserID     string         `json:"user_id"`
	ItemID     string         `json:"item_id"`
	Fields     map[string]any `json:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event ItemEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ItemEvent) error { return nil }
