package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskdeck/backend/api/handler"
	"github.com/taskdeck/backend/api/view"
	"github.com/taskdeck/backend/internal/config"
	"github.com/taskdeck/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskdeck/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskdeck/backend/internal/infrastructure/redis"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/internal/router"
	"github.com/taskdeck/backend/internal/services"
	"github.com/taskdeck/backend/internal/services/lifecycle"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/pkg/logger"
	"github.com/taskdeck/backend/repository"
	"github.com/taskdeck/backend/repository/boltdb"
	"github.com/taskdeck/backend/repository/postgres"
	redisRepo "github.com/taskdeck/backend/repository/redis"
	authUC "github.com/taskdeck/backend/usecase/auth"
	taskUC "github.com/taskdeck/backend/usecase/task"
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

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	if err := pgInfra.ApplyCascadePolicy(appCtx, pool, cfg.Database, zapLogger); err != nil {
		zapLogger.Fatal("cascade policy failed", zap.Error(err))
	}

	// Sessions live in Redis when one is configured; otherwise a local
	// bbolt file keeps development setups dependency-free.
	var sessionRepo repository.SessionRepository
	var sessionCheck monitor.SessionCheck

	if cfg.Redis.URL != "" {
		redisClient, err := redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
		sessionCheck = func(ctx context.Context) bool {
			return redisClient.Ping(ctx).Err() == nil
		}
	} else {
		store, err := boltdb.Open(cfg.Session.StorePath, cfg.Session.TTL)
		if err != nil {
			zapLogger.Fatal("session store open failed", zap.Error(err))
		}
		manager.Register("session_store", func(ctx context.Context) error {
			return store.Close()
		})

		sweeper, err := services.NewSessionSweeper(store, cfg.Session.SweepInterval, zapLogger)
		if err != nil {
			zapLogger.Fatal("session sweeper setup failed", zap.Error(err))
		}
		sweeper.Start()
		manager.Register("session_sweeper", func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		})

		sessionRepo = store
		sessionCheck = func(ctx context.Context) bool {
			_, err := store.Size()
			return err == nil
		}
	}

	mon := monitor.New(pool, sessionCheck, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	views, err := view.New(zapLogger)
	if err != nil {
		zapLogger.Fatal("template parsing failed", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	cookie := apiHandler.CookieSettings{
		Name:   cfg.Session.CookieName,
		Secret: cfg.Session.Secret,
		Secure: cfg.Session.CookieSecure,
	}

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, views, ctxAdapter, zapLogger, cookie, cfg.Session.TTL),
		Task:   apiHandler.NewTaskHandler(taskUseCase, views, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, views, ctxAdapter, zapLogger),
	}

	requireSession := middleware.RequireSession(cfg.Session.CookieName, cfg.Session.Secret, authUseCase, zapLogger)
	r := router.New(handlers, requireSession)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
