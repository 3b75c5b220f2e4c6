package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/spiritnsoul/couponart/internal/api"
	"github.com/spiritnsoul/couponart/internal/config"
	"github.com/spiritnsoul/couponart/internal/coupon"
	"github.com/spiritnsoul/couponart/internal/designer"
	imagepkg "github.com/spiritnsoul/couponart/internal/image"
	"github.com/spiritnsoul/couponart/internal/logger"
	"github.com/spiritnsoul/couponart/internal/metrics"
	"github.com/spiritnsoul/couponart/internal/store"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	logger.Setup("couponart", cfg.Log.Level, cfg.Log.Pretty)

	st, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Storage.Type).Msg("failed to open record store")
	}
	defer closeStore()

	canvas := imagepkg.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	opts := []imagepkg.Option{
		imagepkg.WithCanvas(canvas),
		imagepkg.WithLoadTimeout(cfg.Compositor.LoadTimeout()),
		imagepkg.WithMonogram(cfg.Compositor.Monogram),
	}
	if cfg.Compositor.Watermark != "" {
		opts = append(opts, imagepkg.WithWatermark(imagepkg.ParseSource(cfg.Compositor.Watermark)))
	}

	synth := imagepkg.NewSynthesizer(canvas)
	svc := designer.NewService(synth, imagepkg.NewCompositor(opts...), st, metrics.New(prometheus.DefaultRegisterer))
	h := api.NewHandler(svc, st, synth, coupon.NewMessenger())

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())
	api.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Type).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func openStore(cfg config.StorageConfig) (store.Store, func(), error) {
	switch cfg.Type {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		return store.NewRedisStore(client, cfg.RedisKey), func() { client.Close() }, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir, cfg.MaxBytes)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}
