package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

var _ ports.CartStorage = (*MongoStorage)(nil)

const cartsCollection = "carts"

type cartDocument struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStorage keeps one document per cart key in the carts collection.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongoStorage connects to url and verifies the connection.
func OpenMongoStorage(ctx context.Context, url, dbName string) (*MongoStorage, error) {
	clientOptions := options.Client().ApplyURI(url).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	slog.InfoContext(ctx, "connected to MongoDB", "database", dbName, "collection", cartsCollection)

	return NewMongoStorage(client, client.Database(dbName).Collection(cartsCollection)), nil
}

// NewMongoStorage uses an already connected client. Close disconnects it.
func NewMongoStorage(client *mongo.Client, collection *mongo.Collection) *MongoStorage {
	return &MongoStorage{client: client, collection: collection}
}

func (m *MongoStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load cart: %w", err)
	}
	return []byte(doc.Data), nil
}

func (m *MongoStorage) Save(ctx context.Context, key string, data []byte) error {
	doc := cartDocument{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)

	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("cannot save cart: %w", err)
	}
	return nil
}

func (m *MongoStorage) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
	}
	return nil
}
