package metadata

import (
	"os/user"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ownerCacheSize bounds the session-scoped uid→name cache. Real trees
// rarely carry more than a handful of distinct owners.
const ownerCacheSize = 256

// OwnerCache resolves numeric uids to account names at most once per
// uid for the lifetime of a session. Concurrent lookups for the same
// uid collapse into a single resolution; failures fall back to the
// numeric string and are cached like successes.
type OwnerCache struct {
	cache  *lru.Cache[uint32, string]
	flight singleflight.Group
	lookup func(uid string) (string, error)
}

// NewOwnerCache creates an empty session-scoped owner cache
func NewOwnerCache() *OwnerCache {
	cache, _ := lru.New[uint32, string](ownerCacheSize)
	return &OwnerCache{
		cache:  cache,
		lookup: lookupUser,
	}
}

// Resolve returns the account name for uid
func (o *OwnerCache) Resolve(uid uint32) string {
	if name, ok := o.cache.Get(uid); ok {
		return name
	}

	key := strconv.FormatUint(uint64(uid), 10)
	v, _, _ := o.flight.Do(key, func() (interface{}, error) {
		// A finished flight for this uid has already populated the
		// cache; re-checking here keeps resolution at-most-once even
		// for lookups that raced past the first check.
		if name, ok := o.cache.Get(uid); ok {
			return name, nil
		}
		name, err := o.lookup(key)
		if err != nil || name == "" {
			name = key
		}
		o.cache.Add(uid, name)
		return name, nil
	})
	return v.(string)
}

// Len reports how many distinct uids have been resolved so far
func (o *OwnerCache) Len() int {
	return o.cache.Len()
}

func lookupUser(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
