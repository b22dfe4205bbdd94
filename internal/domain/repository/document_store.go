package repository

import (
	"context"
	"errors"
	"path"
)

// ErrDocumentNotFound is returned by Update and Delete for a missing document.
var ErrDocumentNotFound = errors.New("document not found")

// Document is one record of a collection; Data is the schemaless body.
type Document struct {
	ID   string
	Data map[string]any
}

// ChangeType classifies a document change between two snapshots.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

type DocumentChange struct {
	Type ChangeType
	Doc  Document
}

// Snapshot is the full listing of a collection at one point in time, in
// store order, plus the changes since the previous snapshot of the same watch.
type Snapshot struct {
	Docs    []Document
	Changes []DocumentChange
}

// SnapshotFunc receives every snapshot of a watch, in emission order.
type SnapshotFunc func(Snapshot)

// ErrorFunc receives the error that terminated a watch.
type ErrorFunc func(error)

// Subscription is a standing watch; Close stops delivery and waits for it.
type Subscription interface {
	Close()
}

// DocumentStore is the realtime document backend.
type DocumentStore interface {
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Watch(ctx context.Context, collection string, onSnapshot SnapshotFunc, onError ErrorFunc) (Subscription, error)
}

// InventoryCollection is the per-application, per-user inventory path.
func InventoryCollection(appID, userID string) string {
	return path.Join("artifacts", appID, "users", userID, "inventory")
}
