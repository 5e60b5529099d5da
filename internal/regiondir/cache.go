package regiondir

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	regionsKey    = "regiondir:ufs"
	citiesKeyBase = "regiondir:cities:"
)

// CachedDirectory is a Redis read-through decorator over a form.Directory.
// Administrative divisions change rarely, so responses are cached as JSON
// with a TTL. Cache errors degrade to a direct fetch; a cold or broken cache
// never makes the directory less available than the upstream service.
type CachedDirectory struct {
	next form.Directory
	rdb  *redis.Client
	ttl  time.Duration
	log  *logger.Logger
}

// NewCached wraps a directory with a Redis cache.
func NewCached(next form.Directory, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedDirectory {
	return &CachedDirectory{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Regions returns the cached UF list, fetching and storing it on a miss.
func (d *CachedDirectory) Regions(ctx context.Context) ([]string, error) {
	if cached, ok := d.get(ctx, regionsKey); ok {
		return cached, nil
	}

	list, err := d.next.Regions(ctx)
	if err != nil {
		return nil, err
	}
	d.put(ctx, regionsKey, list)
	return list, nil
}

// Cities returns the cached city list for one UF, fetching and storing it on
// a miss.
func (d *CachedDirectory) Cities(ctx context.Context, uf string) ([]string, error) {
	key := citiesKeyBase + uf
	if cached, ok := d.get(ctx, key); ok {
		return cached, nil
	}

	list, err := d.next.Cities(ctx, uf)
	if err != nil {
		return nil, err
	}
	d.put(ctx, key, list)
	return list, nil
}

func (d *CachedDirectory) get(ctx context.Context, key string) ([]string, bool) {
	payload, err := d.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.log.Warn("region cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var list []string
	if err := json.Unmarshal(payload, &list); err != nil {
		d.log.Warn("region cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return list, true
}

func (d *CachedDirectory) put(ctx context.Context, key string, list []string) {
	payload, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := d.rdb.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.log.Warn("region cache write failed", "key", key, "error", err)
	}
}

var _ form.Directory = (*CachedDirectory)(nil)
var _ form.Directory = (*Client)(nil)
