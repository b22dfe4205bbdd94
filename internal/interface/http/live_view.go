package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const (
	maxMessages     = 20
	clientBufferLen = 16

	EventInventory = "inventory"
	EventMessage   = "message"
	EventView      = "view"
	EventSession   = "session"
)

// Frame is the last rendered list.
type Frame struct {
	Items      []entity.Item `json:"items"`
	HTML       string        `json:"html"`
	Version    uint64        `json:"version"`
	RenderedAt time.Time     `json:"rendered_at"`
}

// Message is one entry of the message surface.
type Message struct {
	Text     string    `json:"text"`
	Severity string    `json:"severity"`
	At       time.Time `json:"at"`
}

// StreamEvent is what stream clients receive.
type StreamEvent struct {
	Name string
	Data any
}

// PageData feeds the page template.
type PageData struct {
	Title    string
	Session  *entity.Session
	View     entity.View
	Items    []entity.Item
	Editing  *entity.Item
	Messages []Message
}

// LiveView is the screen: it renders the inventory list, keeps recent
// messages and fans both out to stream clients. It implements
// application.Renderer and application.Notifier.
type LiveView struct {
	tmpl   *template.Template
	logger *logrus.Logger

	mu       sync.RWMutex
	frame    Frame
	messages []Message
	clients  map[chan StreamEvent]struct{}
}

func NewLiveView(logger *logrus.Logger) (*LiveView, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"price": func(p float64) string { return fmt.Sprintf("$%.2f", p) },
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	v := &LiveView{
		tmpl:    tmpl,
		logger:  logger,
		clients: map[chan StreamEvent]struct{}{},
	}
	html, err := v.renderList(nil)
	if err != nil {
		return nil, err
	}
	v.frame = Frame{Items: []entity.Item{}, HTML: html, RenderedAt: time.Now().UTC()}
	return v, nil
}

// Render rebuilds the list from scratch.
func (v *LiveView) Render(items []entity.Item) {
	html, err := v.renderList(items)
	if err != nil {
		v.logger.WithError(err).Error("failed to render inventory list")
		return
	}
	v.mu.Lock()
	v.frame = Frame{
		Items:      items,
		HTML:       html,
		Version:    v.frame.Version + 1,
		RenderedAt: time.Now().UTC(),
	}
	frame := v.frame
	v.mu.Unlock()

	v.logger.WithField("count", len(items)).Debug("rendered inventory list")
	v.broadcast(StreamEvent{Name: EventInventory, Data: frame})
}

// Notify shows a transient message.
func (v *LiveView) Notify(text string, severity application.Severity) {
	m := Message{Text: text, Severity: string(severity), At: time.Now().UTC()}
	v.mu.Lock()
	v.messages = append(v.messages, m)
	if len(v.messages) > maxMessages {
		v.messages = append([]Message(nil), v.messages[len(v.messages)-maxMessages:]...)
	}
	v.mu.Unlock()
	v.broadcast(StreamEvent{Name: EventMessage, Data: m})
}

// ViewChanged is registered as a view listener.
func (v *LiveView) ViewChanged(_, to entity.View) {
	v.broadcast(StreamEvent{Name: EventView, Data: map[string]string{"view": string(to)}})
}

// SessionResolved announces the resolved identity to connected clients.
func (v *LiveView) SessionResolved(sess entity.Session) {
	v.broadcast(StreamEvent{Name: EventSession, Data: sessionPayload(sess)})
}

func (v *LiveView) Frame() Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.frame
}

// Messages returns recent messages, newest last.
func (v *LiveView) Messages() []Message {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Message(nil), v.messages...)
}

// Page writes the full HTML page.
func (v *LiveView) Page(w io.Writer, data PageData) error {
	return v.tmpl.ExecuteTemplate(w, "page", data)
}

// Subscribe registers a stream client. The returned cancel func must be
// called when the client goes away.
func (v *LiveView) Subscribe() (<-chan StreamEvent, func()) {
	ch := make(chan StreamEvent, clientBufferLen)
	v.mu.Lock()
	v.clients[ch] = struct{}{}
	v.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.clients, ch)
			v.mu.Unlock()
			close(ch)
		})
	}
}

func (v *LiveView) Clients() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.clients)
}

// broadcast never blocks on a slow client; it drops the event for that
// client instead.
func (v *LiveView) broadcast(ev StreamEvent) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for ch := range v.clients {
		select {
		case ch <- ev:
		default:
			v.logger.WithField("event", ev.Name).Warn("stream client too slow, event dropped")
		}
	}
}

func (v *LiveView) renderList(items []entity.Item) (string, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, "list", items); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sessionPayload(sess entity.Session) map[string]any {
	return map[string]any{
		"user_id":   sess.UserID,
		"display":   sess.Display(),
		"anonymous": sess.Anonymous,
		"fallback":  sess.Fallback,
	}
}
