package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("documento não encontrado")
	ErrConflict = errors.New("documento modificado por outra operação")
)

// Query is an equality filter over top-level fields with an optional sort.
type Query struct {
	Filter bson.M
	SortBy string
	Desc   bool
}

// Update describes a partial write on one document. Inc values are signed
// increments applied by the store itself, never read-modify-write.
// Expect holds field values the stored document must carry for the write
// to apply.
type Update struct {
	Set    bson.M
	Inc    bson.M
	Expect bson.M
}

// Store is the document database as seen by the services.
type Store interface {
	NewID() string
	Get(ctx context.Context, collection, id string) (bson.Raw, error)
	Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error)
	NewBatch() Batch
}

// Batch collects writes that are committed all-or-nothing.
// Update on a missing document fails the commit with ErrNotFound and an
// unmet Expect fails it with ErrConflict. Delete on a missing document is a no-op.
type Batch interface {
	Set(collection, id string, doc any)
	Update(collection, id string, u Update)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}

type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

// op is one pending write, shared by both store implementations.
type op struct {
	kind       opKind
	collection string
	id         string
	doc        any
	update     Update
}

type opList []op

func (l *opList) Set(collection, id string, doc any) {
	*l = append(*l, op{kind: opSet, collection: collection, id: id, doc: doc})
}

func (l *opList) Update(collection, id string, u Update) {
	*l = append(*l, op{kind: opUpdate, collection: collection, id: id, update: u})
}

func (l *opList) Delete(collection, id string) {
	*l = append(*l, op{kind: opDelete, collection: collection, id: id})
}

func (l *opList) Len() int {
	return len(*l)
}

func newObjectID() string {
	return primitive.NewObjectID().Hex()
}

// GetAs reads one document and decodes it into T.
func GetAs[T any](ctx context.Context, s Store, collection, id string) (T, error) {
	var out T
	raw, err := s.Get(ctx, collection, id)
	if err != nil {
		return out, err
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decodificar %s/%s: %w", collection, id, err)
	}
	return out, nil
}

// FindAs runs q and decodes every match into T. It never returns a nil slice.
func FindAs[T any](ctx context.Context, s Store, collection string, q Query) ([]T, error) {
	raws, err := s.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decodificar %s: %w", collection, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// Exists reports whether the document is present.
func Exists(ctx context.Context, s Store, collection, id string) (bool, error) {
	_, err := s.Get(ctx, collection, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
