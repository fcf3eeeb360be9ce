package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

const collectionClientState = "client_state"

type stateDoc struct {
	ID        string    `bson:"_id"`
	Profile   string    `bson:"profile"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store implements ports.KeyValueStore with one document per profile/key.
type Store struct {
	client  *mongo.Client
	col     *mongo.Collection
	profile string
}

var _ ports.KeyValueStore = (*Store)(nil)

// NewStore uses the client_state collection of db. The store owns the
// underlying client and disconnects it on Close.
func NewStore(db *mongo.Database, profile string) *Store {
	if profile == "" {
		profile = "default"
	}
	return &Store{client: db.Client(), col: db.Collection(collectionClientState), profile: profile}
}

func (s *Store) docID(key string) string {
	return s.profile + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc stateDoc
	err := s.col.FindOne(ctx, bson.M{"_id": s.docID(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo find %q: %w", key, err)
	}
	return doc.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := stateDoc{
		ID:        s.docID(key),
		Profile:   s.profile,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %q: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": s.docID(key)}); err != nil {
		return fmt.Errorf("mongo delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
