package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/pkg/helpers"
)

var ErrUnknownEventType = errors.New("unknown item event type")

type jsonPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// ItemEventPublisher sends item events to the item events queue.
type ItemEventPublisher struct {
	pub jsonPublisher
}

func NewItemEventPublisher(pub *helpers.RabbitPublisher) *ItemEventPublisher {
	return &ItemEventPublisher{pub: pub}
}

func (p *ItemEventPublisher) Publish(ctx context.Context, ev application.ItemEvent) error {
	return p.pub.PublishJSON(ctx, ev.Type, ev)
}

// DecodeItemEvent parses a queued message body and checks its type.
func DecodeItemEvent(body []byte) (application.ItemEvent, error) {
	var ev application.ItemEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("decode item event: %w", err)
	}
	switch ev.Type {
	case application.EventItemCreated, application.EventItemUpdated, application.EventItemDeleted:
		return ev, nil
	default:
		return ev, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
}

// ActivityFields is the structured activity log record for an event.
func ActivityFields(ev application.ItemEvent) logrus.Fields {
	f := logrus.Fields{
		"event":       ev.Type,
		"app_id":      ev.AppID,
		"user_id":     ev.UserID,
		"item_id":     ev.ItemID,
		"occurred_at": ev.OccurredAt,
	}
	if name, ok := ev.Fields["name"]; ok {
		f["item_name"] = name
	}
	if len(ev.Fields) > 0 {
		f["fields"] = len(ev.Fields)
	}
	return f
}
