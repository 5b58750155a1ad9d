package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/linkpeek/linkpeek/internal/api"
	"github.com/linkpeek/linkpeek/internal/auth"
	"github.com/linkpeek/linkpeek/internal/bridge"
	"github.com/linkpeek/linkpeek/internal/cache"
	"github.com/linkpeek/linkpeek/internal/config"
	"github.com/linkpeek/linkpeek/internal/loader"
	"github.com/linkpeek/linkpeek/internal/match"
	"github.com/linkpeek/linkpeek/internal/preview"
)

// tunables maps the preview section of the config onto controller tunables.
func tunables(p config.PreviewConfig) preview.Tunables {
	return preview.Tunables{
		HoverDelay:   p.HoverDelay,
		OffsetX:      p.OffsetX,
		OffsetY:      p.OffsetY,
		PlaceholderW: p.PlaceholderWidth,
		PlaceholderH: p.PlaceholderHeight,
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("linkpeekd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"listen_addr", cfg.Daemon.ListenAddr,
		"auth_mode", cfg.Daemon.Auth.Mode,
		"hover_delay", cfg.Preview.HoverDelay,
		"cache_capacity", cfg.Cache.Capacity,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	matcher := match.New(cfg.Matcher.ExtraExtensions...)
	imageCache := cache.New(cfg.Cache.Capacity)
	httpLoader := loader.NewHTTP(cfg.Loader.Timeout, cfg.Loader.MaxBodyBytes)
	counters := &preview.Counters{}

	// WebSocket bridge — one preview session per connected page context.
	srv := bridge.New(matcher, imageCache, httpLoader, counters, tunables(cfg.Preview))

	// Watch config file for hot-reload of the preview tunables.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			srv.SetTunables(tunables(updated.Preview))
			slog.Info("config hot-reloaded", "hover_delay", updated.Preview.HoverDelay)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Admin API with optional API key authentication.
	adminAPI := auth.APIKeyMiddleware(
		cfg.Daemon.Auth.Mode,
		cfg.Daemon.Auth.EffectiveHeader(),
		cfg.Daemon.Auth.Key(),
		api.New(imageCache, counters, srv),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", adminAPI)
	mux.Handle("/metrics", api.Metrics(imageCache, counters, srv))
	mux.Handle("/ws/events", srv)

	httpSrv := &http.Server{
		Addr:    cfg.Daemon.ListenAddr,
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Daemon.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("linkpeekd shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
