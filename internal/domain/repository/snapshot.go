package repository

import "reflect"

// Diff computes the changes that turn prev into next. Added and modified
// changes follow next's order; removals follow prev's order and come last.
func Diff(prev, next []Document) []DocumentChange {
	before := make(map[string]Document, len(prev))
	for _, d := range prev {
		before[d.ID] = d
	}
	var changes []DocumentChange
	seen := make(map[string]struct{}, len(next))
	for _, d := range next {
		seen[d.ID] = struct{}{}
		old, ok := before[d.ID]
		switch {
		case !ok:
			changes = append(changes, DocumentChange{Type: ChangeAdded, Doc: d})
		case !reflect.DeepEqual(old.Data, d.Data):
			changes = append(changes, DocumentChange{Type: ChangeModified, Doc: d})
		}
	}
	for _, d := range prev {
		if _, ok := seen[d.ID]; !ok {
			changes = append(changes, DocumentChange{Type: ChangeRemoved, Doc: d})
		}
	}
	return changes
}

// CloneData copies a document body one level deep.
func CloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
