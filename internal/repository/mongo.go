package repository

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// NewMongoDatabase connects to MongoDB and returns a handle to the
// configured database. The connection is verified with a ping.
func NewMongoDatabase(ctx context.Context, mongoCfg config.MongoConfig) (*mongo.Database, error) {
	if mongoCfg.URI == "" {
		return nil, fmt.Errorf("mongo configuration is missing or URI is empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoCfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(mongoCfg.Database), nil
}
