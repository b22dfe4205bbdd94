package entity

import (
	"bytes"
	"encoding/json"
)

// Item is one inventory record as cached from the backing store.
// CreatedAt is the ISO-8601 string written once at creation.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// ItemInput carries raw form values exactly as submitted.
type ItemInput struct {
	Name        string       `json:"name" form:"name" binding:"max=200"`
	Quantity    NumericInput `json:"quantity" form:"quantity" binding:"max=64"`
	Price       NumericInput `json:"price" form:"price" binding:"max=64"`
	Description string       `json:"description" form:"description" binding:"max=2000"`
	Category    string       `json:"category" form:"category" binding:"max=200"`
}

// NumericInput is the raw text of a numeric form field. In JSON it may be
// sent as a string or as a number; either way it is kept as text and
// coerced later.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = NumericInput(num)
	return nil
}

// ItemPatch carries the fields supplied for an update; nil means untouched.
type ItemPatch struct {
	Name        *string       `json:"name" binding:"omitempty,max=200"`
	Quantity    *NumericInput `json:"quantity" binding:"omitempty,max=64"`
	Price       *NumericInput `json:"price" binding:"omitempty,max=64"`
	Description *string       `json:"description" binding:"omitempty,max=2000"`
	Category    *string       `json:"category" binding:"omitempty,max=200"`
}

// Empty reports whether no field was supplied.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Quantity == nil && p.Price == nil && p.Description == nil && p.Category == nil
}

// PatchFromInput treats every form field as supplied, which is what the
// edit form submits.
func PatchFromInput(in ItemInput) ItemPatch {
	return ItemPatch{
		Name:        &in.Name,
		Quantity:    &in.Quantity,
		Price:       &in.Price,
		Description: &in.Description,
		Category:    &in.Category,
	}
}
