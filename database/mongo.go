package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	VendasCollection        = "vendas"
	ProdutosCollection      = "produtos"
	MovimentacoesCollection = "movimentacoesEstoque"
	ContasReceberCollection = "contasReceber"
	ClientesCollection      = "clientes"
	UsersCollection         = "users"
)

// Connect opens the client and pings the primary so a bad URI fails at startup.
func Connect(uri string, dbName string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("MONGODB_URI não configurada")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the secondary indexes the queries rely on. It is
// idempotent and safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		VendasCollection:        {Keys: bson.D{{Key: "dataVenda", Value: -1}}},
		ContasReceberCollection: {Keys: bson.D{{Key: "vendaId", Value: 1}}},
		MovimentacoesCollection: {Keys: bson.D{{Key: "produtoId", Value: 1}, {Key: "data", Value: -1}}},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("criar índice em %s: %w", name, err)
		}
	}
	return nil
}
