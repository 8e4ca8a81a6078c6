package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "csei-backend/internal/adapter/http"
	"csei-backend/internal/adapter/repository/mysql"
	"csei-backend/internal/config"
	"csei-backend/internal/infrastructure/cache"
	"csei-backend/internal/infrastructure/db"
	"csei-backend/internal/infrastructure/email"
	"csei-backend/internal/infrastructure/observability"
	"csei-backend/internal/infrastructure/storage"
	"csei-backend/internal/scheduler"
	"csei-backend/internal/usecase/balance"
	"csei-backend/internal/usecase/credential"
	"csei-backend/internal/usecase/loan"
	"csei-backend/internal/usecase/prospect"
	"csei-backend/pkg/id"
)

const (
	serviceName     = "csei-backend"
	shutdownTimeout = 15 * time.Second
	sweepLockKey    = "lock:balance-sweep"
	sweepLockTTL    = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.Logger.Error("load config", "error", err)
		os.Exit(1)
	}
	log := observability.InitLogging(os.Stdout, cfg.LogLevel, serviceName)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  serviceName,
		Environment:  cfg.AppEnv,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: 1,
	})
	if err != nil {
		log.Error("init tracing", "error", err)
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Error("database handle", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// idempotency and the sweep lock need redis; the API still serves without it
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, idempotency and sweep locking disabled", "error", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	docs, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:          cfg.AWSRegion,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		UsePathStyle:    cfg.S3Endpoint != "",
	})
	if err != nil {
		log.Error("init document store", "error", err)
		os.Exit(1)
	}
	if cfg.S3Bucket == "" {
		log.Warn("S3_BUCKET_NAME not set, engagement letter uploads will fail")
	}

	mailer := email.NewDispatcher(email.NewSMTPSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		UseTLS:   cfg.SMTPUseTLS,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}), cfg.EmailWorkers, email.DefaultQueueSize)

	tx := mysql.NewGormUoW(gdb)
	ids := id.NewGenerator()
	members := mysql.NewMemberRepository(gdb)

	prospects := prospect.NewUsecase(tx, mysql.NewProspectRepository(gdb), ids, credential.NewIssuer(), mailer)
	loans := loan.NewUsecase(tx, mysql.NewLoanRepository(gdb), docs, ids, mailer)
	sweeper := balance.NewSweeper(members, mysql.NewLedgerRepository(gdb), mailer, cfg.BalanceSweepWorkers)

	var lock scheduler.Locker
	if rdb != nil {
		lock = cache.NewMutex(rdb, sweepLockKey, sweepLockTTL)
	}
	sched := scheduler.New(sweeper, lock, 0)
	if err := sched.Start(cfg.BalanceSweepSchedule); err != nil {
		log.Error("start scheduler", "error", err)
		os.Exit(1)
	}

	checks := map[string]httpadp.Pinger{"database": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	e := httpadp.NewRouter(httpadp.RouterConfig{
		Health:              httpadp.NewHandler(checks),
		Prospects:           httpadp.NewProspectHandler(prospects),
		Loans:               httpadp.NewLoanHandler(loans),
		Notifications:       httpadp.NewNotificationHandler(sched),
		JWTSecret:           []byte(cfg.JWTSecret),
		Redis:               rdb,
		IdempotencyTTL:      time.Duration(cfg.IdempTTLSecs) * time.Second,
		IntakeRatePerMinute: cfg.IntakeRatePerMinute,
	})

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.AppEnv, "db_driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	sched.Stop(sctx)
	if err := mailer.Stop(sctx); err != nil {
		log.Error("email dispatcher shutdown", "error", err)
	}
	if err := shutdownTracing(sctx); err != nil {
		log.Error("tracer shutdown", "error", err)
	}
}
