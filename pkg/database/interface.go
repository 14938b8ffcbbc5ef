package database

import (
	"context"
)

// Pinger is the health-check view of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (*Client)(nil)
