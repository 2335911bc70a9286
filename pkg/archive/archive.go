// Package archive persists successful catalog snapshots in MongoDB.
//
// Each successful build writes one snapshot document. The newest snapshot
// per package type doubles as a stale-read fallback while a rebuild is in
// flight, and the full collection is an audit trail of what the catalog
// served over time.
package archive

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/packdex/packdex/pkg/catalog"
)

const collectionName = "snapshots"

// Snapshot is one archived catalog build.
type Snapshot struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Type    string             `bson:"type"`
	BuildID string             `bson:"build_id"`
	BuiltAt time.Time          `bson:"built_at"`
	Catalog catalog.Catalog    `bson:"catalog"`
}

// Store reads and writes snapshots in one MongoDB collection.
// All methods are safe for concurrent use.
type Store struct {
	coll *mongo.Collection
}

// Connect establishes a MongoDB connection and returns a Store over the
// snapshots collection of the given database. The connection is verified
// with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{coll: client.Database(database).Collection(collectionName)}, nil
}

// NewStore wraps an existing collection; used by tests with their own
// client setup.
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Save archives one successful build.
func (s *Store) Save(ctx context.Context, typeName, buildID string, c catalog.Catalog) error {
	_, err := s.coll.InsertOne(ctx, Snapshot{
		Type:    typeName,
		BuildID: buildID,
		BuiltAt: time.Now().UTC(),
		Catalog: c,
	})
	return err
}

// Latest returns the newest archived catalog for a package type and when
// it was built. A type with no snapshots yields (nil, zero time, nil).
func (s *Store) Latest(ctx context.Context, typeName string) (catalog.Catalog, time.Time, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "built_at", Value: -1}})

	var snap Snapshot
	err := s.coll.FindOne(ctx, bson.M{"type": typeName}, opts).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return snap.Catalog, snap.BuiltAt, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}
