package store

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process. Used by the tests and by
// STORE_DRIVER=memory for local development.
type MemoryStore struct {
	mu        sync.RWMutex
	data      map[string]map[string]bson.M
	commitErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]bson.M)}
}

func (s *MemoryStore) NewID() string {
	return newObjectID()
}

// FailCommits makes every following Commit return err without applying
// anything. Pass nil to restore normal behavior.
func (s *MemoryStore) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// Count returns how many documents the collection holds.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return bson.Marshal(doc)
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, err := canonical(q.Filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var matches []bson.M
	for _, doc := range s.data[collection] {
		if matchAll(doc, filter) {
			matches = append(matches, doc)
		}
	}
	s.mu.RUnlock()

	// map iteration order is random; sort by id first so results are stable.
	// Generated ids grow over time, so ties follow insertion order.
	sort.Slice(matches, func(i, j int) bool {
		a, b := fmt.Sprint(matches[i]["_id"]), fmt.Sprint(matches[j]["_id"])
		if q.Desc {
			return b < a
		}
		return a < b
	})
	if q.SortBy != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			a, b := matches[i][q.SortBy], matches[j][q.SortBy]
			if q.Desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}

	out := make([]bson.Raw, 0, len(matches))
	for _, doc := range matches {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: s}
}

type memoryBatch struct {
	opList
	store *MemoryStore
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commitErr != nil {
		return s.commitErr
	}

	// writes go to copies of the touched collections and replace the
	// originals only when every op succeeded
	work := make(map[string]map[string]bson.M)
	collection := func(name string) map[string]bson.M {
		if c, ok := work[name]; ok {
			return c
		}
		c := maps.Clone(s.data[name])
		if c == nil {
			c = make(map[string]bson.M)
		}
		work[name] = c
		return c
	}

	for _, o := range b.opList {
		coll := collection(o.collection)
		switch o.kind {
		case opSet:
			doc, err := toDoc(o.doc)
			if err != nil {
				return fmt.Errorf("gravar %s/%s: %w", o.collection, o.id, err)
			}
			doc["_id"] = o.id
			coll[o.id] = doc

		case opUpdate:
			current, ok := coll[o.id]
			if !ok {
				return fmt.Errorf("%s/%s: %w", o.collection, o.id, ErrNotFound)
			}
			expect, err := canonical(o.update.Expect)
			if err != nil {
				return err
			}
			if !matchAll(current, expect) {
				return fmt.Errorf("%s/%s: %w", o.collection, o.id, ErrConflict)
			}
			next := maps.Clone(current)
			for k, v := range o.update.Set {
				next[k] = v
			}
			for k, delta := range o.update.Inc {
				sum, err := addNumbers(next[k], delta)
				if err != nil {
					return fmt.Errorf("incrementar %s em %s/%s: %w", k, o.collection, o.id, err)
				}
				next[k] = sum
			}
			next, err = canonical(next)
			if err != nil {
				return fmt.Errorf("atualizar %s/%s: %w", o.collection, o.id, err)
			}
			coll[o.id] = next

		case opDelete:
			delete(coll, o.id)
		}
	}

	for name, coll := range work {
		s.data[name] = coll
	}
	return nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// canonical round-trips m through BSON so Go values (time.Time, structs)
// compare the same way stored values do.
func canonical(m bson.M) (bson.M, error) {
	if len(m) == 0 {
		return bson.M{}, nil
	}
	return toDoc(m)
}

func matchAll(doc, filter bson.M) bool {
	for k, want := range filter {
		if !equalValues(doc[k], want) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func addNumbers(current, delta any) (any, error) {
	d, ok := number(delta)
	if !ok {
		return nil, fmt.Errorf("incremento não numérico %v", delta)
	}
	if current == nil {
		return delta, nil
	}
	c, ok := number(current)
	if !ok {
		return nil, fmt.Errorf("campo não numérico %v", current)
	}
	_, curFloat := current.(float64)
	_, deltaFloat := delta.(float64)
	if !curFloat && !deltaFloat {
		return int64(c) + int64(d), nil
	}
	return c + d, nil
}

func lessValue(a, b any) bool {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return fa < fb
		}
	}
	switch x := a.(type) {
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return x < y
		}
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	// missing values sort first
	return a == nil && b != nil
}
