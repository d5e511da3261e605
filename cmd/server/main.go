package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gate-server-go/internal/config"
	"github.com/codegate/gate-server-go/internal/handler"
	"github.com/codegate/gate-server-go/internal/jobs"
	"github.com/codegate/gate-server-go/internal/redis"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/server"
	"github.com/codegate/gate-server-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	site, err := handler.NewProtectedSite(cfg.ProtectedSiteDir, cfg.EntryDocument)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ProtectedSiteDir).Msg("failed to open protected site")
	}
	defer site.Close()

	store := repository.NewMemoryAccessCodeRepository()

	scheduler := jobs.NewExpiryScheduler(store)
	defer scheduler.Stop()

	var checker service.ReputationChecker
	if cfg.ReputationEnabled() {
		cache := repository.NewMemoryReputationCache()
		if cfg.RedisURL != "" {
			redisClient, err := redis.NewClient(cfg.RedisURL)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to redis")
			}
			defer redisClient.Close()
			log.Info().Msg("redis connected, sharing reputation verdicts")
			cache = repository.NewRedisReputationCache(redisClient.Client)
		}

		cleanupJob := jobs.NewCleanupJob(cache, config.ReputationCacheSweepInterval)
		cleanupJob.Start()
		defer cleanupJob.Stop()

		checker = service.NewCachedReputationChecker(
			service.NewIPInfoChecker(cfg.ReputationBaseURL, cfg.ReputationAPIToken, cfg.ReputationTimeout()),
			cache,
			cfg.ReputationCacheTTL(),
		)
	}

	r := server.NewRouter(server.Deps{
		Store:          store,
		Scheduler:      scheduler,
		Site:           site,
		Reputation:     service.NewReputationGuard(checker, cfg.ReputationTimeout()),
		FallbackURL:    cfg.FallbackURL,
		CodeExpiry:     cfg.CodeExpiry(),
		TrustProxy:     cfg.TrustProxy,
		RequestTimeout: config.ServerRequestTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("site", cfg.ProtectedSiteDir).
			Dur("codeExpiry", cfg.CodeExpiry()).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
