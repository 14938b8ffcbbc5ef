package cache

import (
	"github.com/go-redis/redis/v8"
)

// Lua scripts for Redis operations
var (
	invalidatePropertyCacheScript *redis.Script
	releaseLockScript             *redis.Script
)

func init() {
	// remove all cache keys associated with a property and bump the search generation.
	// KEYS[1] = property key set, KEYS[2] = search generation counter
	invalidatePropertyCacheScript = redis.NewScript(`
		local cache_keys = redis.call('SMEMBERS', KEYS[1])
		if #cache_keys > 0 then
			redis.call('DEL', unpack(cache_keys))
		end
		redis.call('DEL', KEYS[1])
		return redis.call('INCR', KEYS[2])
	`)

	// delete the lock only if it is still held by the caller's token.
	releaseLockScript = redis.NewScript(`
		if redis.call('GET', KEYS[1]) == ARGV[1] then
			return redis.call('DEL', KEYS[1])
		end
		return 0
	`)
}
