package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "udyam-verification/internal/adapter/http"
	"udyam-verification/internal/adapter/ratelimit"
	"udyam-verification/internal/adapter/repository/gormrepo"
	"udyam-verification/internal/config"
	domainotp "udyam-verification/internal/domain/otp"
	"udyam-verification/internal/infrastructure/cache"
	"udyam-verification/internal/infrastructure/db"
	"udyam-verification/internal/infrastructure/logger"
	"udyam-verification/internal/infrastructure/metrics"
	"udyam-verification/internal/scheduler"
	"udyam-verification/internal/usecase/otp"
	"udyam-verification/internal/usecase/pan"
	"udyam-verification/internal/usecase/submission"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), !cfg.IsProduction(), log)
	if err != nil {
		log.Fatal("db connect failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, 3*time.Second)
		if err != nil {
			log.Fatal("redis connect failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
	}

	m := metrics.New()
	q := scheduler.New(log)

	memLimiter := ratelimit.NewMemory(domainotp.RateLimit, domainotp.RateWindow)
	var limiter otp.Limiter = memLimiter
	if rdb != nil {
		limiter = ratelimit.NewRedis(rdb, "otp", domainotp.RateLimit, domainotp.RateWindow)
	}

	otpLogs := gormrepo.NewOtpLogRepository(gdb)
	pans := gormrepo.NewPanRepository(gdb)

	otpUC := otp.NewUsecase(otp.Deps{
		Limiter:   limiter,
		Logs:      otpLogs,
		Sender:    otp.NewLogSender(log, cfg.SMSDelay),
		Scheduler: q,
		Log:       log,
		Metrics:   m,
	})
	panUC := pan.NewUsecase(pan.Deps{
		Repo:    pans,
		Delay:   cfg.PANLookupDelay,
		Log:     log,
		Metrics: m,
	})
	formUC := submission.NewUsecase(submission.Deps{
		Submissions:     gormrepo.NewSubmissionRepository(gdb),
		Audits:          gormrepo.NewAuditRepository(gdb),
		OtpLogs:         otpLogs,
		Pans:            pans,
		UoW:             gormrepo.NewGormUoW(gdb),
		Scheduler:       q,
		ProcessingDelay: cfg.ProcessingDelay,
		ApprovalDelay:   cfg.ApprovalDelay,
		Log:             log,
		Metrics:         m,
	})

	err = q.Every("otp-janitor", janitorInterval, func(context.Context) {
		now := time.Now().UTC()
		otpUC.Purge(now)
		memLimiter.Purge(now)
	})
	if err != nil {
		log.Fatal("janitor not started", zap.Error(err))
	}

	e := httpadp.NewRouter(httpadp.RouterDeps{
		OTP:            otpUC,
		PAN:            panUC,
		Forms:          formUC,
		Log:            log,
		Metrics:        m,
		CORSOrigins:    cfg.CORSOrigins,
		Redis:          rdb,
		IdempotencyTTL: time.Duration(cfg.IdempTTLSecs) * time.Second,
		Started:        time.Now(),
	})

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := q.Shutdown(sctx); err != nil {
		log.Error("scheduler shutdown", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
