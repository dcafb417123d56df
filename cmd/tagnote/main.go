package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authpg "tagnote/internal/auth/adapters/postgres"
	authsvc "tagnote/internal/auth/adapters/services"
	authapp "tagnote/internal/auth/app"
	"tagnote/internal/cache"
	"tagnote/internal/client"
	"tagnote/internal/config"
	httpadapter "tagnote/internal/gateway/adapters/http"
	"tagnote/internal/gateway/app/http/middleware"
	"tagnote/internal/health"
	notespg "tagnote/internal/notes/adapters/postgres"
	notesapp "tagnote/internal/notes/app"
	"tagnote/internal/resilience"
	"tagnote/internal/session"
	"tagnote/migrations"
	"tagnote/pkg/db/postgres"
	pkgredis "tagnote/pkg/db/redis"
	"tagnote/pkg/logger"
	"tagnote/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "TAGNOTE_LOGGER_MODE"
	EnvLoggerLevel = "TAGNOTE_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrConnectDatabase      = "failed to connect to database"
	ErrApplyMigrations      = "failed to apply migrations"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrSetupRouter          = "failed to set up HTTP routes"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrStartGRPCServer      = "failed to start gRPC health server"
	ErrCleanupTokens        = "failed to clean up expired tokens"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "tagnote service started"
	LogServiceShutdownDone = "tagnote service shutdown complete"
	LogInitBackend         = "initializing backend use cases"
	LogInitClients         = "initializing session clients"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC health server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingGRPC        = "stopping gRPC health server"
	LogClosingSessions     = "closing browser sessions"
	LogClosingRedis        = "closing Redis connection"
	LogClosingDatabase     = "closing database connection"
	LogTokensCleaned       = "expired refresh tokens removed"
)

// Префиксы ключей Redis.
const (
	sessionCachePrefix = "tagnote:"
	tagsCachePrefix    = "tagnote:notes:"
	breakerName        = "auth-refresh"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == string(logger.Production) {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger
		ctx = logger.NewContext(ctx, log)

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		if err := run(ctx, log, cfg); err != nil {
			log.Error(ctx, err.Error())
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func run(ctx context.Context, log *logger.Logger, cfg *config.Config) error {
	db, err := postgres.New(ctx, cfg.Backend.URL, postgres.Options{
		MinConns:        cfg.Postgres.MinConn,
		MaxConns:        cfg.Postgres.MaxConn,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		ConnectTimeout:  cfg.Postgres.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrConnectDatabase, err)
	}

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, cfg.Backend.URL, migrations.FS, migrations.Dir); err != nil {
			db.Close(ctx)
			return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
		}
	}

	rdb, err := pkgredis.NewClient(ctx, pkgredis.Config{
		Addr:     cfg.Redis.GetAddress(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		db.Close(ctx)
		return fmt.Errorf("%s: %w", ErrCreateRedisClient, err)
	}

	log.Info(ctx, LogInitBackend)
	repos := authpg.NewRepositoryFactory(db.Pool())
	services := authsvc.NewServiceFactory(cfg.Backend.APIKey,
		cfg.JWT.GetAccessTokenTTL(), cfg.JWT.GetRefreshTokenTTL(), cfg.JWT.BCryptCost)
	authUseCase := authapp.NewAuthUseCase(repos.UserRepository(), repos.TokenRepository(),
		services.PasswordService(), services.TokenService())
	notesUseCase := notesapp.NewNoteUseCase(notespg.NewNoteRepository(db.Pool()), services.TokenService(),
		cache.NewRedisCache(rdb, tagsCachePrefix, cfg.Redis.TagsTTL),
		notesapp.Options{
			DefaultPageSize: cfg.Notes.PageSize,
			MaxPageSize:     cfg.Notes.MaxPageSize,
			TagsTTL:         cfg.Redis.TagsTTL,
		})

	log.Info(ctx, LogInitClients)
	breaker := resilience.NewCircuitBreaker(breakerName, resilience.CircuitBreakerConfig{
		ErrorThreshold:   cfg.Breaker.FailureThreshold,
		Timeout:          cfg.Breaker.ResetTimeout,
		SuccessThreshold: cfg.Breaker.HalfOpenMax,
		IsFailure:        client.IsBackendFailure,
	})
	sessionStore := client.NewCacheSessionStore(
		cache.NewRedisCache(rdb, sessionCachePrefix, cfg.Session.PersistTTL), cfg.Session.PersistTTL)
	factory := client.NewFactory(authUseCase, notesUseCase, client.AuthOptions{
		Store:         sessionStore,
		Breaker:       breaker,
		RefreshMargin: cfg.JWT.GetRefreshMargin(),
	})
	manager := session.NewManager(factory, session.Options{
		IdleTTL:         cfg.Session.IdleTTL,
		JanitorInterval: cfg.Session.JanitorInterval,
		PageSize:        cfg.Notes.PageSize,
		Store:           sessionStore,
	})

	workCtx, stopWork := context.WithCancel(ctx)
	defer stopWork()
	manager.Start(workCtx)
	go cleanupTokens(workCtx, authUseCase, cfg.JWT.CleanupInterval)

	checker := health.NewChecker(health.DefaultProbeTimeout).
		Add("postgres", db.Ping).
		Add("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

	log.Info(ctx, LogInitHTTPServer)
	app := httpadapter.NewApp(httpadapter.ServerOptions{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	if err := httpadapter.SetupRouter(app, httpadapter.Dependencies{
		Logger:  log,
		Factory: factory,
		Manager: manager,
		Checker: checker,
		Cookie: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.HTTP.SecureCookie,
		},
	}); err != nil {
		manager.Close()
		_ = rdb.Close()
		db.Close(ctx)
		return fmt.Errorf("%s: %w", ErrSetupRouter, err)
	}

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := app.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		}
	}()

	log.Info(ctx, LogStartingGRPC, zap.String("address", cfg.GRPC.GetAddress()))
	grpcServer := health.NewServer(checker, cfg.GRPC.CheckInterval)
	if err := grpcServer.Start(workCtx, cfg.GRPC.GetAddress()); err != nil {
		log.Error(ctx, ErrStartGRPCServer, zap.Error(err))
	}

	err = shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
		// Остановка HTTP сервера.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return app.ShutdownWithContext(ctx)
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingGRPC)
			grpcServer.Stop(ctx)
			return nil
		},
	)

	stopWork()
	log.Info(ctx, LogClosingSessions)
	manager.Close()

	log.Info(ctx, LogClosingRedis)
	if closeErr := rdb.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	log.Info(ctx, LogClosingDatabase)
	db.Close(ctx)

	if err != nil {
		return fmt.Errorf("%s: %w", ErrShutdown, err)
	}
	return nil
}

type tokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// cleanupTokens периодически удаляет истекшие и отозванные refresh токены.
func cleanupTokens(ctx context.Context, cleaner tokenCleaner, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := cleaner.CleanupExpiredTokens(ctx)
			if err != nil {
				logger.Log(ctx).Error(ctx, ErrCleanupTokens, zap.Error(err))
				continue
			}
			logger.Log(ctx).Debug(ctx, LogTokensCleaned, zap.Int64("removed", removed))
		}
	}
}
