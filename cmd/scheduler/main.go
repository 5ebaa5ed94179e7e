package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/robfig/cron/v3"

	"github.com/kpraveenraj/lending-engine/internal/config"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	"github.com/kpraveenraj/lending-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	customerRepo := repository.NewCustomerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	statsService := service.NewStatsService(loanRepo, paymentRepo, customerRepo, redisClient, cfg.Business.StatsCacheTTL)
	loanService := service.NewLoanService(loanRepo, customerRepo, statsService)

	c := cron.New()
	setupCronJobs(c, cfg, loanService, statsService)

	c.Start()
	log.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down scheduler")
	<-c.Stop().Done()
	log.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, loans *service.LoanService, stats *service.StatsService) {
	// Daily sweep at midnight: loans past due beyond the grace period are
	// marked defaulted.
	_, err := c.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		defaulted, err := loans.SweepOverdue(ctx, time.Now(), cfg.Business.OverdueGraceDays)
		if err != nil {
			log.WithError(err).Error("overdue sweep failed")
			return
		}

		log.WithFields(log.Fields{
			"defaulted":  len(defaulted),
			"grace_days": cfg.Business.OverdueGraceDays,
		}).Info("overdue sweep completed")
	})
	if err != nil {
		log.Fatalf("failed to schedule overdue sweep: %v", err)
	}

	// Keep the dashboard overview warm.
	_, err = c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := stats.Overview(ctx, time.Now()); err != nil {
			log.WithError(err).Warn("stats cache warm failed")
		}
	})
	if err != nil {
		log.Fatalf("failed to schedule stats warm job: %v", err)
	}

	log.Info("cron jobs scheduled")
}
