package application

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

// ItemStore caches the last full snapshot of the user's items, sorted for
// display. It is only ever replaced wholesale.
type ItemStore struct {
	mu    sync.RWMutex
	items []entity.Item
}

func NewItemStore() *ItemStore {
	return &ItemStore{items: []entity.Item{}}
}

// Replace swaps in the snapshot's documents, sorted by name
// (case-insensitive, ties kept in store order), and returns a copy.
func (s *ItemStore) Replace(docs []repository.Document) []entity.Item {
	items := make([]entity.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, ItemFromDocument(d))
	}
	SortByName(items)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return cloneItems(items)
}

// Items returns a copy of the cached list.
func (s *ItemStore) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *ItemStore) Find(id string) (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return entity.Item{}, false
}

func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// SortByName orders items by name ignoring case; stable.
func SortByName(items []entity.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// ItemFromDocument decodes a stored document. Missing or mistyped fields
// fall back to their zero values.
func ItemFromDocument(d repository.Document) entity.Item {
	return entity.Item{
		ID:          d.ID,
		Name:        stringField(d.Data, "name"),
		Quantity:    wholeCount(numberField(d.Data, "quantity")),
		Price:       numberField(d.Data, "price"),
		Description: stringField(d.Data, "description"),
		Category:    stringField(d.Data, "category"),
		CreatedAt:   stringField(d.Data, "createdAt"),
	}
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func numberField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func cloneItems(items []entity.Item) []entity.Item {
	out := make([]entity.Item, len(items))
	copy(out, items)
	return out
}
