package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-core/internal/audit"
	"github.com/BruksfildServices01/barbershop-core/internal/cache"
	"github.com/BruksfildServices01/barbershop-core/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-core/internal/db"
	"github.com/BruksfildServices01/barbershop-core/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-core/internal/jobs"
	"github.com/BruksfildServices01/barbershop-core/internal/lock"
	"github.com/BruksfildServices01/barbershop-core/internal/logger"
	"github.com/BruksfildServices01/barbershop-core/internal/payment"
	"github.com/BruksfildServices01/barbershop-core/internal/routes"
	"github.com/BruksfildServices01/barbershop-core/internal/telemetry"
	"github.com/BruksfildServices01/barbershop-core/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barbershop-core/internal/usecase/booking"
)

const serviceName = "barbershop-core"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	shutdownTracing := telemetry.Setup(serviceName, cfg.OTLPEndpoint, cfg.OTLPInsecure, zl)

	db := dbpkg.NewDB(cfg)
	repo := repository.NewSchedulingGormRepository(db)

	gateway, err := payment.NewGateway(cfg)
	if err != nil {
		zl.Fatal("payment gateway", zap.Error(err))
	}
	if gateway == nil {
		zl.Info("no payment gateway configured, card and e-wallet payments are refused")
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, zl)

	deps := ucBooking.Deps{
		Repo:     repo,
		Payments: payment.NewRouter(gateway),
		Clock:    timezone.NewBusinessClock(cfg.BusinessTimezone),
		Audit:    auditDispatcher,
		Logger:   zl,
		Policy:   ucBooking.PolicyFromConfig(cfg),
	}

	// ======================================================
	// LOCK / CACHE / HOLD QUEUE
	// ======================================================
	var worker *jobs.Worker
	if cfg.RedisAddr != "" {
		lockClient := newRedis(cfg, cfg.RedisLockDB, zl)
		cacheClient := newRedis(cfg, cfg.RedisCacheDB, zl)
		defer lockClient.Close()
		defer cacheClient.Close()

		deps.Locker = lock.NewRedis(lockClient, cfg.LockTTL)
		deps.Cache = cache.NewRedisAvailability(cacheClient, cfg.AvailabilityCacheTTL)

		queueOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		enqueuer := jobs.NewAsynqEnqueuer(queueOpt)
		deps.Holds = enqueuer
		defer enqueuer.Close()

		worker = jobs.NewWorker(queueOpt, ucBooking.NewReleaseHold(deps), zl)
		if err := worker.Start(); err != nil {
			zl.Fatal("hold release worker", zap.Error(err))
		}
	} else {
		zl.Info("REDIS_ADDR empty, running lock, cache and holds in process")
		deps.Locker = lock.NewLocal()
		deps.Cache = cache.Nop{}
		deps.Holds = jobs.NopEnqueuer{}
	}

	// The sweeper runs either way; it catches holds whose delayed task was
	// lost or never scheduled.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go jobs.RunSweeper(sweepCtx, ucBooking.NewReleaseHold(deps), cfg.HoldSweepInterval, zl)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Infra{
		DB:        db,
		Config:    cfg,
		Booking:   deps,
		AuditLogs: auditLogger,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Warn("shutdown error", zap.Error(err))
	}
	stopSweeper()
	if worker != nil {
		worker.Shutdown()
	}
	auditDispatcher.Close(ctx)
	if err := shutdownTracing(ctx); err != nil {
		zl.Warn("tracing shutdown", zap.Error(err))
	}
}

func newRedis(cfg *config.Config, db int, zl *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zl.Fatal("redis ping", zap.Int("db", db), zap.Error(err))
	}
	return client
}
