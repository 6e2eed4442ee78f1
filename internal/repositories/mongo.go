package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	clientMu     sync.Mutex
	cachedClient *mongo.Client
	cachedURI    string
)

// ConnectMongo returns the process-wide mongo client, dialing it on first
// use. Safe to call concurrently; subsequent calls reuse the cached
// connection. There is no teardown in the common path, the pool lives for
// the life of the process.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	if cachedClient != nil && cachedURI == uri {
		return cachedClient, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().Msg("Connected to MongoDB")

	cachedClient = client
	cachedURI = uri

	return cachedClient, nil
}
