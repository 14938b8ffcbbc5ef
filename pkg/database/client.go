package database

import (
	"context"
	"fmt"
	"time"

	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options configures Connect.
type Options struct {
	URI         string
	DBName      string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Client owns the pooled MongoDB connection. It is created once at startup,
// handed to repositories and closed on shutdown.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(opts.URI).
		SetConnectTimeout(opts.Timeout).
		SetMaxPoolSize(opts.MaxPoolSize)

	start := time.Now()
	client, err := mongo.Connect(ctx, clientOptions)
	metrics.MongoOperationDuration.WithLabelValues("connect", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("connect", "").Inc()
		logger.GlobalLogger.Errorf("failed to connect to MongoDB: %v", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	c := &Client{client: client, db: client.Database(opts.DBName)}
	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		logger.GlobalLogger.Errorf("failed to ping MongoDB: %v", err)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GlobalLogger.Printf("MongoDB connected successfully (database %s)", opts.DBName)
	return c, nil
}

// Database returns the catalog database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Collection returns a handle to the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.client.Ping(ctx, readpref.Primary())
	metrics.MongoOperationDuration.WithLabelValues("ping", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("ping", "").Inc()
	}
	return err
}

// Close disconnects the pool.
func (c *Client) Close(ctx context.Context) error {
	start := time.Now()
	err := c.client.Disconnect(ctx)
	metrics.MongoOperationDuration.WithLabelValues("disconnect", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("disconnect", "").Inc()
		logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
		return err
	}
	logger.GlobalLogger.Println("MongoDB connection closed")
	return nil
}
