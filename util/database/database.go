package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB is the process-wide handle to the document store, acquired once at
// startup and released via Close during shutdown.
type DB struct {
	Client *mongo.Client
	name   string
}

func New(ctx context.Context, uri, name string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &DB{Client: client, name: name}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.Client.Database(d.name).Collection(name)
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
