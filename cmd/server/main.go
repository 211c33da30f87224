package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/hubsync/backend/api/handler"
	"github.com/hubsync/backend/internal/bus"
	"github.com/hubsync/backend/internal/config"
	"github.com/hubsync/backend/internal/infrastructure/buffer"
	"github.com/hubsync/backend/internal/infrastructure/monitor"
	pgInfra "github.com/hubsync/backend/internal/infrastructure/postgres"
	redisInfra "github.com/hubsync/backend/internal/infrastructure/redis"
	"github.com/hubsync/backend/internal/middleware"
	"github.com/hubsync/backend/internal/realtime"
	"github.com/hubsync/backend/internal/router"
	"github.com/hubsync/backend/internal/services"
	"github.com/hubsync/backend/internal/services/lifecycle"
	"github.com/hubsync/backend/internal/store"
	syncmgr "github.com/hubsync/backend/internal/sync"
	"github.com/hubsync/backend/pkg/httpcontext"
	"github.com/hubsync/backend/pkg/logger"
	"github.com/hubsync/backend/repository"
	failoverRepo "github.com/hubsync/backend/repository/failover"
	localRepo "github.com/hubsync/backend/repository/local"
	"github.com/hubsync/backend/repository/postgres"
	redisRepo "github.com/hubsync/backend/repository/redis"
	authUC "github.com/hubsync/backend/usecase/auth"
	contentUC "github.com/hubsync/backend/usecase/content"
	documentUC "github.com/hubsync/backend/usecase/document"
	profileUC "github.com/hubsync/backend/usecase/profile"
	taskUC "github.com/hubsync/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	life := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	life.Listen(cancel)

	// The local store is the source of truth; it must open or there is no
	// service to run. Cloud dependencies below are best-effort.
	localStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("failed to open local store", zap.Error(err))
	}
	life.Register("store", func(ctx context.Context) error {
		return localStore.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "reconcile_queue")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	life.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	var pool *pgxpool.Pool
	if p, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger); err != nil {
		zapLogger.Warn("postgres unavailable, running local-only", zap.Error(err))
	} else {
		pool = p
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Warn("migrations failed", zap.Error(err))
		}
		life.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
	}

	var redisClient *goRedis.Client
	if c, err := redisInfra.NewClient(cfg.Redis); err != nil {
		zapLogger.Warn("redis unavailable, sessions stay local", zap.Error(err))
	} else {
		redisClient = c
		life.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	life.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	eventBus := bus.New(zapLogger)
	if redisClient != nil {
		if err := eventBus.Attach(bus.NewRedisTransport(redisClient, cfg.Bus.Channel, zapLogger)); err != nil {
			zapLogger.Warn("redis event transport unavailable", zap.Error(err))
		}
	}
	if cfg.Bus.JournalPath != "" {
		if err := eventBus.Attach(bus.NewJournalTransport(cfg.Bus.JournalPath, zapLogger)); err != nil {
			zapLogger.Warn("journal event transport unavailable", zap.Error(err))
		}
	}
	life.Register("bus", func(ctx context.Context) error {
		return eventBus.Close()
	})

	manager := syncmgr.New(localStore, eventBus, zapLogger)

	var (
		taskRepo    repository.TaskRepository
		docRepo     repository.DocumentRepository
		userRepo    repository.UserRepository
		contentRepo repository.ContentRepository
	)
	if pool != nil {
		taskRepo = postgres.NewTaskRepository(pool)
		docRepo = postgres.NewDocumentRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		contentRepo = postgres.NewContentRepository(pool)
	}

	reconciler := services.NewReconciler(
		bufferStore,
		mon,
		taskRepo,
		docRepo,
		userRepo,
		contentRepo,
		zapLogger,
		services.ReconcilerConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	reconciler.Start()
	life.Register("reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	mirror := services.NewMirror(reconciler, zapLogger)
	mirror.Attach(eventBus)
	life.Register("mirror", func(ctx context.Context) error {
		mirror.Detach()
		return nil
	})

	migrator := services.NewMigrator(localStore, manager, reconciler, mon, zapLogger)
	if err := migrator.Run(appCtx); err != nil {
		zapLogger.Warn("initial cloud migration deferred", zap.Error(err))
	}

	retention := services.NewRetention(manager, bufferStore, cfg.Buffer.RetentionHours, zapLogger)
	retention.Start()
	life.Register("retention", func(ctx context.Context) error {
		retention.Stop()
		return nil
	})

	localSessions := localRepo.NewSessionRepository(localStore, cfg.Session.TTL)
	sessions := localSessions
	if redisClient != nil {
		sessions = failoverRepo.NewSessionRepository(
			redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL),
			localSessions,
			zapLogger,
		)
	}

	authUseCase := authUC.New(manager, sessions, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	taskUseCase := taskUC.New(manager, zapLogger)
	documentUseCase := documentUC.New(manager, zapLogger)
	contentUseCase := contentUC.New(manager, zapLogger)
	profileUseCase := profileUC.New(manager, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Session.TTL),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Document: apiHandler.NewDocumentHandler(documentUseCase, ctxAdapter, zapLogger),
		Content:  apiHandler.NewContentHandler(contentUseCase, ctxAdapter, zapLogger),
		Profile:  apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(manager, ctxAdapter, zapLogger),
		Sync:     apiHandler.NewSyncHandler(manager, reconciler, mon, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	if cfg.Realtime.Enabled {
		rt := realtime.NewServer(cfg.Realtime.Port, zapLogger)
		rt.Attach(eventBus)
		if err := rt.Start(); err != nil {
			zapLogger.Warn("realtime server unavailable", zap.Error(err))
		} else {
			life.Register("realtime", func(ctx context.Context) error {
				return rt.Stop()
			})
		}
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	life.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := life.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
