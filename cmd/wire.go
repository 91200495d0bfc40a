package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"twin-editor/internal/backend"
	"twin-editor/internal/config"
	"twin-editor/internal/conversion"
	"twin-editor/internal/metrics"
	"twin-editor/internal/scene"
	"twin-editor/internal/services"
	"twin-editor/internal/services/cache"
	"twin-editor/internal/services/caches"
	"twin-editor/internal/storage"
)

// editor bundles the services shared by the server and the CLI commands.
type editor struct {
	scenes  *services.SceneService
	library *services.LibraryService
	devices *services.DeviceService
	catalog *services.CatalogCache

	closers []func() error
}

func (e *editor) Close() {
	for _, closeFn := range e.closers {
		_ = closeFn()
	}
}

func buildEditor(ctx context.Context, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*editor, error) {
	e := &editor{}
	collector := metrics.NewCollector(reg)

	client := backend.NewClient(backend.Options{
		BaseURL: cfg.BackendURL,
		Token:   cfg.BackendToken,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
		Metrics: collector,
	})

	var layer cache.Layer
	switch cfg.CacheBackend {
	case config.CacheMemory:
		layer = caches.NewMemoryCache()
	case config.CacheRedis:
		redisClient, err := storage.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, redisClient.Close)
		layer = caches.NewRedisCache(redisClient)
	}
	if layer != nil {
		logger.Info("Catalog cache enabled", zap.String("layer", layer.Name()), zap.Duration("ttl", cfg.CacheTTL))
	}
	e.catalog = services.NewCatalogCache(layer, cfg.CacheTTL, collector, logger)

	resolver := storage.NewModelResolver(nil, "", cfg.ModelURLTTL)
	if cfg.MinioEnabled() {
		minioClient, err := storage.NewMinioClient(ctx, cfg, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		resolver = storage.NewModelResolver(minioClient, cfg.MinioBucket, cfg.ModelURLTTL)
		logger.Info("Presigning model URLs", zap.String("bucket", cfg.MinioBucket))
	}

	converter := conversion.New(cfg.AssimpPath)
	if !converter.Available() {
		logger.Warn("Assimp not found, non-GLB models will be stored unconverted", zap.String("binary", converter.Binary))
	}

	e.scenes = services.NewSceneService(client, client, resolver, scene.NewRegistry(), collector, logger)
	e.library = services.NewLibraryService(client, resolver, converter, e.catalog, logger)
	e.devices = services.NewDeviceService(client, e.catalog, logger)
	return e, nil
}
