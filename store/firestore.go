package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore adapts a Firestore client to the Store interface.
type Firestore struct {
	client *firestore.Client
}

var _ Store = (*Firestore)(nil)

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) collection(p Path) *firestore.CollectionRef {
	c := s.client.Collection(p[0])
	for i := 1; i+1 < len(p); i += 2 {
		c = c.Doc(p[i]).Collection(p[i+1])
	}
	return c
}

func (s *Firestore) Get(ctx context.Context, coll Path, id string) (Doc, error) {
	snap, err := s.collection(coll).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Doc{}, ErrNotFound
	}
	if err != nil {
		return Doc{}, err
	}
	return Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Firestore) List(ctx context.Context, coll Path, q Query) ([]Doc, error) {
	query := s.collection(coll).Query
	for _, f := range q.Filters {
		query = query.Where(f.Path, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return drain(query.Documents(ctx))
}

func (s *Firestore) Create(ctx context.Context, coll Path, fields Fields) (string, error) {
	ref := s.collection(coll).NewDoc()
	if _, err := ref.Set(ctx, fields); err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *Firestore) Put(ctx context.Context, coll Path, id string, fields Fields) error {
	_, err := s.collection(coll).Doc(id).Set(ctx, fields)
	return err
}

func (s *Firestore) Update(ctx context.Context, coll Path, id string, fields Fields) error {
	_, err := s.collection(coll).Doc(id).Update(ctx, toUpdates(fields))
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *Firestore) Delete(ctx context.Context, coll Path, id string) error {
	_, err := s.collection(coll).Doc(id).Delete(ctx)
	return err
}

// BatchUpdate runs every write in a single transaction so the batch commits
// all-or-nothing. This backs the vehicle reorder, the one operation that
// needs cross-document atomicity.
func (s *Firestore) BatchUpdate(ctx context.Context, writes []Write) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range writes {
			ref := s.collection(w.Coll).Doc(w.ID)
			if err := tx.Update(ref, toUpdates(w.Fields)); err != nil {
				return fmt.Errorf("update %s/%s: %w", w.Coll, w.ID, err)
			}
		}
		return nil
	})
}

func (s *Firestore) GroupScan(ctx context.Context, sub string) ([]Doc, error) {
	return drain(s.client.CollectionGroup(sub).Documents(ctx))
}

func toUpdates(fields Fields) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}

func drain(iter *firestore.DocumentIterator) ([]Doc, error) {
	defer iter.Stop()
	docs := make([]Doc, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}
