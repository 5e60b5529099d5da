// Command region-cache-warm preloads the Redis region directory cache so the
// first form sessions after a deploy do not all hit the upstream directory.
// It fetches the region list, then the city list of every region, through the
// same read-through cache the API uses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/regiondir"
	"coleta_portal_backend/platform/config"
	"coleta_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const cityFetchConcurrency = 8

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if !cfg.IsRedisEnabled() {
		log.Error("REDIS_ADDR not configured, nothing to warm")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	})
	defer func() { _ = rdb.Close() }()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis unreachable", "error", err)
		os.Exit(1)
	}

	var directory form.Directory = regiondir.NewCached(
		regiondir.New(cfg.GetRegionDirectoryBaseURL(), log),
		rdb,
		cfg.GetRegionCacheTTL(),
		log,
	)

	start := time.Now()

	regions, err := directory.Regions(ctx)
	if err != nil {
		log.Error("failed to fetch region list", "error", err)
		os.Exit(1)
	}
	log.Info("region list cached", "count", len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cityFetchConcurrency)
	for _, uf := range regions {
		g.Go(func() error {
			cities, err := directory.Cities(gctx, uf)
			if err != nil {
				return fmt.Errorf("cities for %s: %w", uf, err)
			}
			log.Info("city list cached", "uf", uf, "count", len(cities))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("cache warm incomplete", "error", err)
		os.Exit(1)
	}

	log.Info("region cache warm complete", "regions", len(regions), "took", time.Since(start))
}
