package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
)

func doc(id, name string) repository.Document {
	return repository.Document{ID: id, Data: map[string]any{"name": name}}
}

func names(t *testing.T, s *ItemStore) []string {
	t.Helper()
	var out []string
	for _, it := range s.Items() {
		out = append(out, it.Name)
	}
	return out
}

func TestItemStore(t *testing.T) {
	t.Run("Replace_SortsByNameIgnoringCase", func(t *testing.T) {
		s := NewItemStore()
		s.Replace([]repository.Document{doc("1", "pear"), doc("2", "Apple"), doc("3", "banana")})
		require.Equal(t, []string{"Apple", "banana", "pear"}, names(t, s))
	})

	t.Run("Replace_KeepsStoreOrderForTies", func(t *testing.T) {
		s := NewItemStore()
		items := s.Replace([]repository.Document{doc("z", "apple"), doc("a", "APPLE"), doc("m", "Apple")})
		require.Equal(t, "z", items[0].ID)
		require.Equal(t, "a", items[1].ID)
		require.Equal(t, "m", items[2].ID)
	})

	t.Run("Replace_IsWholesale", func(t *testing.T) {
		s := NewItemStore()
		s.Replace([]repository.Document{doc("1", "a"), doc("2", "b")})
		s.Replace([]repository.Document{doc("3", "c")})
		require.Equal(t, []string{"c"}, names(t, s))
		_, ok := s.Find("1")
		require.False(t, ok)
	})

	t.Run("Items_ReturnsCopy", func(t *testing.T) {
		s := NewItemStore()
		s.Replace([]repository.Document{doc("1", "a")})
		got := s.Items()
		got[0].Name = "mutated"
		require.Equal(t, []string{"a"}, names(t, s))
	})

	t.Run("MissingNameSortsFirst", func(t *testing.T) {
		s := NewItemStore()
		s.Replace([]repository.Document{doc("1", "b"), {ID: "2", Data: map[string]any{}}})
		require.Equal(t, []string{"", "b"}, names(t, s))
	})
}

func TestItemFromDocument(t *testing.T) {
	it := ItemFromDocument(repository.Document{ID: "x", Data: map[string]any{
		"name":        "Bolts",
		"quantity":    float64(12),
		"price":       1.25,
		"description": "M6",
		"category":    "hardware",
		"createdAt":   "2024-05-01T10:00:00.000Z",
	}})
	require.Equal(t, "x", it.ID)
	require.Equal(t, "Bolts", it.Name)
	require.Equal(t, int64(12), it.Quantity)
	require.Equal(t, 1.25, it.Price)
	require.Equal(t, "M6", it.Description)
	require.Equal(t, "hardware", it.Category)
	require.Equal(t, "2024-05-01T10:00:00.000Z", it.CreatedAt)

	mixed := ItemFromDocument(repository.Document{ID: "y", Data: map[string]any{"quantity": int64(3), "price": "2.5", "name": 42}})
	require.Equal(t, int64(3), mixed.Quantity)
	require.Equal(t, 2.5, mixed.Price)
	require.Equal(t, "", mixed.Name)

	for _, q := range []any{float64(-3), 2.7, 1e30, "9e99"} {
		it := ItemFromDocument(repository.Document{ID: "z", Data: map[string]any{"quantity": q}})
		require.GreaterOrEqual(t, it.Quantity, int64(0), "%v", q)
		require.LessOrEqual(t, it.Quantity, int64(maxQuantity), "%v", q)
	}
	require.Equal(t, int64(2), ItemFromDocument(repository.Document{Data: map[string]any{"quantity": 2.7}}).Quantity)
}
