package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idei-labs/usim/pkg/api"
	"github.com/idei-labs/usim/pkg/auth"
	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/config"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/observability"
	"github.com/idei-labs/usim/pkg/screens"
	"github.com/idei-labs/usim/pkg/state"
	"github.com/idei-labs/usim/pkg/userdir"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := clientstate.NewCodec(cfg.Secret)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.Secret)
	if err != nil {
		return err
	}

	dir, err := userdir.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer dir.Close()
	if err := dir.Seed(ctx, demoUsers); err != nil {
		return err
	}

	var backend state.Backend
	if cfg.RedisAddr != "" {
		redisBackend := state.NewRedisBackend(cfg.RedisAddr, "", cfg.RedisDB)
		if err := redisBackend.Ping(ctx); err != nil {
			return err
		}
		logger.Info("ui state cache", "backend", "redis", "addr", cfg.RedisAddr)
		backend = redisBackend
	} else {
		logger.Warn("REDIS_ADDR not set, ui state is held in process memory")
		backend = state.NewMemoryBackend()
	}
	store := state.New(backend, state.WithTTL(cfg.CacheTTL), state.WithLogger(logger))

	var obs *observability.Provider
	if cfg.OTLPEndpoint != "" {
		obsCfg := observability.DefaultConfig()
		obsCfg.OTLPEndpoint = cfg.OTLPEndpoint
		obsCfg.Insecure = cfg.Debug
		obs, err = observability.New(ctx, obsCfg)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = obs.Shutdown(shutdownCtx)
		}()
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if obs != nil {
		engineOpts = append(engineOpts, engine.WithRecorder(obs))
	}
	eng := engine.New(store, engineOpts...)
	if err := screens.RegisterAll(eng, screens.All(dir, tokens)); err != nil {
		return err
	}

	if cfg.ProfilesDir != "" {
		profiles, err := config.LoadAllProfiles(cfg.ProfilesDir)
		if err != nil {
			logger.Warn("screen profiles unavailable", "dir", cfg.ProfilesDir, "error", err)
		} else {
			for screen, p := range profiles {
				eng.SetTheme(screen, component.Theme{
					MaxWidth:     p.Theme.MaxWidth,
					Padding:      p.Theme.Padding,
					CardShadow:   p.Theme.CardShadow,
					TableStriped: p.Theme.TableStriped,
					Defaults:     p.Defaults,
				})
			}
			logger.Info("screen profiles loaded", "count", len(profiles))
		}
	}

	srv := api.NewServer(eng, codec, api.WithLogger(logger), api.WithDebug(cfg.Debug))
	limiter := api.NewGlobalRateLimiter(cfg.RateRPS, cfg.RateBurst)
	handler := api.WithSession(api.WithClientState(codec, logger)(srv.Routes()))
	handler = api.RequestIDMiddleware(api.CORSMiddleware(nil)(limiter.Middleware(handler)))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// demoUsers are inserted only when the users table is empty.
var demoUsers = []userdir.SeedUser{
	{Email: "admin@example.com", Name: "Admin", Roles: "admin", Password: "admin"},
	{Email: "alice@example.com", Name: "Alice Jensen", Roles: "editor", Password: "alice"},
	{Email: "bob@example.com", Name: "Bob Halvorsen", Roles: "viewer", Password: "bob"},
}
