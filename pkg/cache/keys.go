package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PropertyKey is the cache key for a hydrated property at a given
// generation. A read that races a write caches under the old generation,
// which no later read looks up.
func PropertyKey(generation int64, id string) string {
	return fmt.Sprintf("property:%s:%d", id, generation)
}

// PropertyKeysSetKey is the set of cache keys derived from a property.
func PropertyKeysSetKey(propertyID string) string {
	return fmt.Sprintf("property:keys:%s", propertyID)
}

// SearchGenerationKey holds a counter bumped on every catalog write. Search
// keys embed it, so a bump orphans every cached search at once.
func SearchGenerationKey() string {
	return "search:generation"
}

// SearchKey is the cache key for one search input at a given generation.
func SearchKey(generation int64, input interface{}) string {
	raw, _ := json.Marshal(input)
	sum := md5.Sum(raw)
	return fmt.Sprintf("search:%d:%s", generation, hex.EncodeToString(sum[:]))
}

// LockKey is the key guarding a named resource.
func LockKey(resource string) string {
	return fmt.Sprintf("lock:%s", resource)
}
