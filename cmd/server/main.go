package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/kpraveenraj/lending-engine/internal/config"
	"github.com/kpraveenraj/lending-engine/internal/database"
	"github.com/kpraveenraj/lending-engine/internal/handler"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	"github.com/kpraveenraj/lending-engine/internal/service"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.MigrateUp(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	statsService := service.NewStatsService(loanRepo, paymentRepo, customerRepo, redisClient, cfg.Business.StatsCacheTTL)
	customerService := service.NewCustomerService(customerRepo, statsService)
	loanService := service.NewLoanService(loanRepo, customerRepo, statsService)
	paymentService := service.NewPaymentService(paymentRepo, loanRepo, statsService)

	// Handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	loanHandler := handler.NewLoanHandler(loanService)
	paymentHandler := handler.NewPaymentHandler(paymentService, loanService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(customerHandler, loanHandler, paymentHandler, statsHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	customerHandler *handler.CustomerHandler,
	loanHandler *handler.LoanHandler,
	paymentHandler *handler.PaymentHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers/stats/overview", statsHandler.CustomersOverview).Methods("GET")
	api.HandleFunc("/customers", customerHandler.Create).Methods("POST")
	api.HandleFunc("/customers", customerHandler.List).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.Get).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.Update).Methods("PUT")
	api.HandleFunc("/customers/{customerId}", customerHandler.Delete).Methods("DELETE")

	api.HandleFunc("/loans/stats/overview", statsHandler.LoansOverview).Methods("GET")
	api.HandleFunc("/loans", loanHandler.Create).Methods("POST")
	api.HandleFunc("/loans", loanHandler.List).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.Update).Methods("PUT")
	api.HandleFunc("/loans/{loanId}/close", loanHandler.Close).Methods("PUT")
	api.HandleFunc("/loans/{loanId}/default", loanHandler.MarkDefaulted).Methods("PUT")
	api.HandleFunc("/loans/{loanId}/calculate", loanHandler.Calculate).Methods("POST")

	api.HandleFunc("/payments/stats/overview", statsHandler.PaymentsOverview).Methods("GET")
	api.HandleFunc("/payments", paymentHandler.Create).Methods("POST")
	api.HandleFunc("/payments", paymentHandler.List).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.Get).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.Update).Methods("PUT")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.Delete).Methods("DELETE")

	return router
}
