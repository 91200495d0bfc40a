package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	_ "twin-editor/docs"
	"twin-editor/internal/config"
	"twin-editor/internal/handlers"
	"twin-editor/internal/logger"
	"twin-editor/internal/models"
)

// @title Digital Twin Scene Editor API
// @version 1.0
// @description Per-plant scene editing sessions synchronized with the factory backend.
// @BasePath /api/editor
func main() {
	var plantID, filePath, assetName, category string
	var defaultScale float64

	app := &cli.App{
		Name:  "twin-editor",
		Usage: "Scene store and sync service for the digital twin editor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "overrides EDITOR_PORT"},
			&cli.StringFlag{Name: "backend-url", Usage: "overrides BACKEND_URL"},
			&cli.StringFlag{Name: "backend-token", Usage: "overrides BACKEND_TOKEN"},
			&cli.StringFlag{Name: "cache", Usage: "overrides CACHE_BACKEND (memory, redis or none)"},
			&cli.StringFlag{Name: "log-level", Usage: "overrides LOG_LEVEL"},
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start the editor API server",
				Action:  serve,
			},
			{
				Name:  "scene",
				Usage: "Inspect plant scenes",
				Subcommands: []*cli.Command{
					{
						Name:  "dump",
						Usage: "Load a plant's scene from the backend and print it as JSON",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:        "plant",
								Aliases:     []string{"p"},
								Required:    true,
								Destination: &plantID,
							},
						},
						Action: func(c *cli.Context) error {
							return dumpScene(c, plantID)
						},
					},
				},
			},
			{
				Name:  "library",
				Usage: "Manage the asset library",
				Subcommands: []*cli.Command{
					{
						Name:  "upload",
						Usage: "Upload a model file or archive to the library",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:        "file",
								Aliases:     []string{"f"},
								Required:    true,
								Destination: &filePath,
							},
							&cli.StringFlag{
								Name:        "name",
								Destination: &assetName,
							},
							&cli.StringFlag{
								Name:        "category",
								Value:       string(models.CategoryOther),
								Destination: &category,
							},
							&cli.Float64Flag{
								Name:        "scale",
								Value:       1,
								Destination: &defaultScale,
							},
						},
						Action: func(c *cli.Context) error {
							upload := models.LibraryUpload{
								Name:         assetName,
								Category:     models.AssetCategory(category),
								DefaultScale: defaultScale,
							}
							return uploadAsset(c, filePath, upload)
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func serve(c *cli.Context) error {
	cfg := InitConfig(c)
	zapLogger := InitLogger(cfg)
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ed, err := buildEditor(ctx, cfg, zapLogger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer ed.Close()

	app := fiber.New(fiber.Config{BodyLimit: 512 << 20})

	// Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/editor")
	api.Get("/health", handlers.Health(ed.scenes, ed.catalog))
	api.Get("/swagger/*", swagger.HandlerDefault)
	handlers.Register(api,
		handlers.NewEditorHandler(ed.scenes, ed.library, zapLogger),
		handlers.NewLibraryHandler(ed.library, zapLogger),
		handlers.NewDeviceHandler(ed.devices, zapLogger),
	)

	for _, r := range app.GetRoutes(true) {
		zapLogger.Debug("Registered route", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zapLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Server listening", zap.String("port", cfg.AppPort), zap.String("backend", cfg.BackendURL))
	return app.Listen(":" + cfg.AppPort)
}

func dumpScene(c *cli.Context, plantID string) error {
	cfg := InitConfig(c)
	zapLogger := InitLogger(cfg)
	defer zapLogger.Sync()

	ed, err := buildEditor(c.Context, cfg, zapLogger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer ed.Close()

	objects, err := ed.scenes.Load(c.Context, plantID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func uploadAsset(c *cli.Context, path string, upload models.LibraryUpload) error {
	cfg := InitConfig(c)
	zapLogger := InitLogger(cfg)
	defer zapLogger.Sync()

	ed, err := buildEditor(c.Context, cfg, zapLogger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer ed.Close()

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open model file")
	}
	defer f.Close()

	asset, err := ed.library.Upload(c.Context, upload, f.Name(), f)
	if err != nil {
		return err
	}
	zapLogger.Info("Uploaded library asset",
		zap.String("asset_id", asset.ID.String()),
		zap.String("name", asset.Name),
		zap.String("file", asset.File),
	)
	return nil
}

// InitConfig loads the environment configuration and applies global flag
// overrides.
func InitConfig(c *cli.Context) *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	overrides := map[string]*string{
		"port":          &cfg.AppPort,
		"backend-url":   &cfg.BackendURL,
		"backend-token": &cfg.BackendToken,
		"cache":         &cfg.CacheBackend,
		"log-level":     &cfg.LogLevel,
	}
	for flag, field := range overrides {
		if c.IsSet(flag) {
			*field = c.String(flag)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	return cfg
}

func InitLogger(cfg *config.Config) *zap.Logger {
	zapLogger, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "twin-editor")
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	return zapLogger
}
