package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore runs every Batch inside a multi-document transaction, so the
// deployment must be a replica set (Atlas clusters are).
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) NewID() string {
	return newObjectID()
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (bson.Raw, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("buscar %s/%s: %w", collection, id, err)
	}
	return raw, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find()
	if q.SortBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.SortBy, Value: dir}, {Key: "_id", Value: dir}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []bson.Raw
	for cursor.Next(ctx) {
		// cursor.Current is reused by the driver on the next iteration
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		out = append(out, raw)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("listar %s: %w", collection, err)
	}
	return out, nil
}

func (s *MongoStore) NewBatch() Batch {
	return &mongoBatch{db: s.db}
}

type mongoBatch struct {
	opList
	db *mongo.Database
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.opList) == 0 {
		return nil
	}

	session, err := b.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("iniciar sessão: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, o := range b.opList {
			if err := b.apply(sc, o); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (b *mongoBatch) apply(ctx mongo.SessionContext, o op) error {
	coll := b.db.Collection(o.collection)

	switch o.kind {
	case opSet:
		_, err := coll.ReplaceOne(ctx, bson.M{"_id": o.id}, o.doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("gravar %s/%s: %w", o.collection, o.id, err)
		}

	case opUpdate:
		filter := bson.M{"_id": o.id}
		for k, v := range o.update.Expect {
			filter[k] = v
		}
		change := bson.M{}
		if len(o.update.Set) > 0 {
			change["$set"] = o.update.Set
		}
		if len(o.update.Inc) > 0 {
			change["$inc"] = o.update.Inc
		}
		if len(change) == 0 {
			return nil
		}

		res, err := coll.UpdateOne(ctx, filter, change)
		if err != nil {
			return fmt.Errorf("atualizar %s/%s: %w", o.collection, o.id, err)
		}
		if res.MatchedCount == 0 {
			if len(o.update.Expect) > 0 {
				n, err := coll.CountDocuments(ctx, bson.M{"_id": o.id})
				if err == nil && n > 0 {
					return fmt.Errorf("%s/%s: %w", o.collection, o.id, ErrConflict)
				}
			}
			return fmt.Errorf("%s/%s: %w", o.collection, o.id, ErrNotFound)
		}

	case opDelete:
		if _, err := coll.DeleteOne(ctx, bson.M{"_id": o.id}); err != nil {
			return fmt.Errorf("remover %s/%s: %w", o.collection, o.id, err)
		}
	}
	return nil
}
