// Package store is the persistence port the services depend on. It models a
// document database: named collections of schemaless documents, optionally
// nested under a parent document, with equality filters and single-field
// ordering. Two implementations exist, one backed by Firestore and an
// in-memory one used by tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Fields is the raw key/value form of a document. Typed entities are mapped
// to and from Fields at this boundary only.
type Fields = map[string]any

type Doc struct {
	ID   string
	Data Fields
}

// DataTo maps the document fields onto a typed record via a JSON round-trip,
// so json tags define the document schema for both backends.
func (d Doc) DataTo(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Path addresses a collection, possibly nested under parent documents.
// It always has odd length: collection, (docID, collection)...
type Path []string

func Root(name string) Path {
	return Path{name}
}

// Child addresses the sub collection of one of this collection's documents.
func (p Path) Child(docID, sub string) Path {
	child := make(Path, 0, len(p)+2)
	child = append(child, p...)
	return append(child, docID, sub)
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Name returns the collection name itself, without any parent segments.
func (p Path) Name() string {
	return p[len(p)-1]
}

// Filter is an equality constraint on a single field.
type Filter struct {
	Path  string
	Value any
}

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Write is one element of an atomic batch update.
type Write struct {
	Coll   Path
	ID     string
	Fields Fields
}

var ErrNotFound = errors.New("document not found")

type Store interface {
	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, coll Path, id string) (Doc, error)
	// List returns the documents of a collection matching the query.
	List(ctx context.Context, coll Path, q Query) ([]Doc, error)
	// Create stores a new document and returns its generated ID.
	Create(ctx context.Context, coll Path, fields Fields) (string, error)
	// Put stores a document under a caller-chosen ID, replacing any
	// previous contents.
	Put(ctx context.Context, coll Path, id string, fields Fields) error
	// Update applies a partial write. Only the supplied fields change.
	// Returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, coll Path, id string, fields Fields) error
	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, coll Path, id string) error
	// BatchUpdate applies every write atomically, or none of them.
	BatchUpdate(ctx context.Context, writes []Write) error
	// GroupScan returns every document of the named sub collection across
	// all parent documents.
	GroupScan(ctx context.Context, sub string) ([]Doc, error)
}
