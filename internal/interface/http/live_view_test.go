package handlers

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

func newTestLiveView(t *testing.T) *LiveView {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	v, err := NewLiveView(l)
	require.NoError(t, err)
	return v
}

func TestLiveView(t *testing.T) {
	t.Run("EmptyListShowsPlaceholder", func(t *testing.T) {
		v := newTestLiveView(t)
		require.Contains(t, v.Frame().HTML, "No items in inventory yet. Add one!")

		v.Render([]entity.Item{{ID: "a", Name: "Bolt"}})
		v.Render(nil)
		require.Contains(t, v.Frame().HTML, "No items in inventory yet. Add one!")
		require.Equal(t, uint64(2), v.Frame().Version)
	})

	t.Run("RenderRebuildsFromScratch", func(t *testing.T) {
		v := newTestLiveView(t)
		v.Render([]entity.Item{{ID: "a", Name: "Anvil", Quantity: 2, Price: 3.5, Category: "tools"}})
		v.Render([]entity.Item{{ID: "b", Name: "Bolt<script>"}})

		html := v.Frame().HTML
		require.NotContains(t, html, "Anvil")
		require.Contains(t, html, `data-item-id="b"`)
		require.Contains(t, html, "Bolt&lt;script&gt;")
		require.NotContains(t, html, "No items in inventory yet")
	})

	t.Run("PriceFormatting", func(t *testing.T) {
		v := newTestLiveView(t)
		v.Render([]entity.Item{{ID: "a", Name: "Anvil", Quantity: 2, Price: 3.5}})
		require.Contains(t, v.Frame().HTML, "$3.50")
		require.Contains(t, v.Frame().HTML, "Qty: 2")
	})

	t.Run("BroadcastsToSubscribers", func(t *testing.T) {
		v := newTestLiveView(t)
		events, cancel := v.Subscribe()
		require.Equal(t, 1, v.Clients())

		v.Render([]entity.Item{{ID: "a", Name: "Anvil"}})
		v.Notify("Item added successfully.", application.SeveritySuccess)
		v.ViewChanged(entity.ViewHome, entity.ViewAdd)

		ev := <-events
		require.Equal(t, EventInventory, ev.Name)
		require.Len(t, ev.Data.(Frame).Items, 1)
		ev = <-events
		require.Equal(t, EventMessage, ev.Name)
		require.Equal(t, "success", ev.Data.(Message).Severity)
		ev = <-events
		require.Equal(t, EventView, ev.Name)

		cancel()
		cancel()
		require.Zero(t, v.Clients())
		_, open := <-events
		require.False(t, open)
	})

	t.Run("SlowClientDoesNotBlock", func(t *testing.T) {
		v := newTestLiveView(t)
		_, cancel := v.Subscribe()
		defer cancel()
		for i := 0; i < clientBufferLen*2; i++ {
			v.Notify("m", application.SeverityInfo)
		}
	})

	t.Run("MessagesAreBounded", func(t *testing.T) {
		v := newTestLiveView(t)
		for i := 0; i < maxMessages+5; i++ {
			v.Notify(fmt.Sprintf("m%d", i), application.SeverityInfo)
		}
		msgs := v.Messages()
		require.Len(t, msgs, maxMessages)
		require.Equal(t, "m5", msgs[0].Text)
		require.Equal(t, fmt.Sprintf("m%d", maxMessages+4), msgs[len(msgs)-1].Text)
	})

	t.Run("PageShowsCurrentViewAndEditForm", func(t *testing.T) {
		v := newTestLiveView(t)
		item := entity.Item{ID: "a", Name: "Anvil", Quantity: 2, Price: 3.5, Description: "heavy"}
		sess := entity.Session{UserID: "0123456789abcdef"}
		var buf bytes.Buffer
		require.NoError(t, v.Page(&buf, PageData{
			Title:   "live-inventory",
			Session: &sess,
			View:    entity.ViewEdit,
			Items:   []entity.Item{item},
			Editing: &item,
		}))
		page := buf.String()
		require.Contains(t, page, "ID: 01234567...")
		require.Contains(t, page, `id="edit-item-id" value="a"`)
		require.Contains(t, page, `<section id="edit-item-view" class="">`)
		require.Contains(t, page, `<section id="home-view" class="hidden">`)
	})

	t.Run("DeleteAsksForConfirmation", func(t *testing.T) {
		v := newTestLiveView(t)
		v.Render([]entity.Item{{ID: "a", Name: "Anvil"}})
		require.Contains(t, v.Frame().HTML, `data-item-name="Anvil"`)

		var buf bytes.Buffer
		require.NoError(t, v.Page(&buf, PageData{Title: "live-inventory", View: entity.ViewHome}))
		require.Contains(t, buf.String(), "window.confirm(")
	})
}
