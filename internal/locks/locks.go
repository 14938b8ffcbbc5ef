// Package locks serializes work per key, in process or across instances.
package locks

import (
	"context"
	"sync"
	"time"

	"realestate-catalog/internal/utils"
	"realestate-catalog/pkg/cache"
	"realestate-catalog/pkg/logger"
)

// maxLockFailures is how many transient store errors in a row Redis.Lock
// absorbs before giving up.
const maxLockFailures = 3

// Locker grants exclusive access to a key until the returned release is called.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type entry struct {
	sem  chan struct{}
	refs int
}

// Keyed is an in-process mutex per key. Entries are dropped once no caller holds or waits on them.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[string]*entry)}
}

func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		k.done(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			k.done(key, e)
		})
	}, nil
}

func (k *Keyed) done(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// Len reports how many keys are currently held or awaited.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// Redis is a lease-based lock shared by every instance using the same Redis.
// The in-process Keyed lock runs first so local callers do not poll Redis.
type Redis struct {
	store cache.Locker
	local *Keyed
	ttl   time.Duration
	retry time.Duration
}

func NewRedis(store cache.Locker, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{store: store, local: NewKeyed(), ttl: ttl, retry: 25 * time.Millisecond}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	releaseLocal, err := r.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := cache.LockKey(key)
	wait := r.retry
	failures := 0
	for {
		token, ok, err := r.store.TryLock(ctx, redisKey, r.ttl)
		if err != nil {
			failures++
			if !utils.IsRetryableError(err) || failures >= maxLockFailures {
				releaseLocal()
				return nil, err
			}
			logger.GlobalLogger.Debugf("retrying lock %s after error: %v", redisKey, err)
		} else {
			failures = 0
		}
		if ok {
			return func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := r.store.Unlock(ctx, redisKey, token); err != nil {
					logger.GlobalLogger.Errorf("failed to release lock %s: %v", redisKey, err)
				}
				releaseLocal()
			}, nil
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			releaseLocal()
			return nil, ctx.Err()
		}
		if wait < 200*time.Millisecond {
			wait *= 2
		}
	}
}
