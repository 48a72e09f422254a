package store

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests. It mirrors the semantics of
// the Firestore adapter: generated IDs, partial updates, atomic batches and
// group scans over same-named sub collections.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]*memColl
}

type memColl struct {
	docs  map[string]Fields
	order []string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{colls: make(map[string]*memColl)}
}

// coll returns the collection, creating it when absent. Callers must hold
// the write lock; read paths use lookup instead.
func (m *Memory) coll(p Path) *memColl {
	key := p.String()
	c, ok := m.colls[key]
	if !ok {
		c = &memColl{docs: make(map[string]Fields)}
		m.colls[key] = c
	}
	return c
}

func (m *Memory) lookup(p Path) (*memColl, bool) {
	c, ok := m.colls[p.String()]
	return c, ok
}

func (m *Memory) Get(ctx context.Context, coll Path, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.lookup(coll)
	if !ok {
		return Doc{}, ErrNotFound
	}
	fields, ok := c.docs[id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	return Doc{ID: id, Data: cloneFields(fields)}, nil
}

func (m *Memory) List(ctx context.Context, coll Path, q Query) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.lookup(coll)
	if !ok {
		return []Doc{}, nil
	}
	docs := make([]Doc, 0)
	for _, id := range c.order {
		fields := c.docs[id]
		if matches(fields, q.Filters) {
			docs = append(docs, Doc{ID: id, Data: cloneFields(fields)})
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy]) < 0
			if q.Desc {
				return !less
			}
			return less
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *Memory) Create(ctx context.Context, coll Path, fields Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	c := m.coll(coll)
	c.docs[id] = cloneFields(fields)
	c.order = append(c.order, id)
	return id, nil
}

func (m *Memory) Put(ctx context.Context, coll Path, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(coll)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = cloneFields(fields)
	return nil
}

func (m *Memory) Update(ctx context.Context, coll Path, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(coll, id, fields)
}

func (m *Memory) update(coll Path, id string, fields Fields) error {
	c, ok := m.lookup(coll)
	if !ok {
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, coll Path, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(coll)
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) BatchUpdate(ctx context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Validate every target first so the batch is all-or-nothing.
	for _, w := range writes {
		c, ok := m.lookup(w.Coll)
		if !ok {
			return ErrNotFound
		}
		if _, ok := c.docs[w.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, w := range writes {
		if err := m.update(w.Coll, w.ID, w.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) GroupScan(ctx context.Context, sub string) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0)
	for key := range m.colls {
		if key == sub || strings.HasSuffix(key, "/"+sub) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	docs := make([]Doc, 0)
	for _, key := range keys {
		c := m.colls[key]
		for _, id := range c.order {
			docs = append(docs, Doc{ID: id, Data: cloneFields(c.docs[id])})
		}
	}
	return docs, nil
}

func cloneFields(fields Fields) Fields {
	clone := make(Fields, len(fields))
	for k, v := range fields {
		clone[k] = v
	}
	return clone
}

func matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		if !valuesEqual(fields[f.Path], f.Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two field values of the same logical type. Missing
// values sort first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if at, ok := a.(time.Time); ok {
		bt, _ := b.(time.Time)
		return at.Compare(bt)
	}
	if af, ok := toFloat(a); ok {
		bf, _ := toFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if as, ok := a.(string); ok {
		bs, _ := b.(string)
		return strings.Compare(as, bs)
	}
	if ab, ok := a.(bool); ok {
		bb, _ := b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
