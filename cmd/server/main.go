package main

import (
	"context"
	"errors"
	"log"
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

	"github.com/fundwell/credit-engine/internal/config"
	"github.com/fundwell/credit-engine/internal/handler"
	"github.com/fundwell/credit-engine/internal/repository"
	"github.com/fundwell/credit-engine/internal/service"
	"github.com/fundwell/credit-engine/pkg/response"
)

func main() {
	// Load .env before config reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	drawRepo := repository.NewDrawRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	transactor := repository.NewTransactor(db)

	// Initialize services
	ledgerService := service.NewLedgerService(accountRepo, drawRepo, auditRepo, transactor, redisClient, cfg)
	workflowService := service.NewDrawWorkflowService(drawRepo, accountRepo, auditRepo, transactor, ledgerService)
	paymentService := service.NewPaymentService(accountRepo, auditRepo, transactor, ledgerService)
	auditService := service.NewAuditService(auditRepo)

	accountHandler := handler.NewAccountHandler(ledgerService)
	drawHandler := handler.NewDrawRequestHandler(workflowService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	auditHandler := handler.NewAuditHandler(auditService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(accountHandler, drawHandler, paymentHandler, auditHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
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
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	accountHandler *handler.AccountHandler,
	drawHandler *handler.DrawRequestHandler,
	paymentHandler *handler.PaymentHandler,
	auditHandler *handler.AuditHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/accounts", accountHandler.Open).Methods("POST")
	api.HandleFunc("/accounts/{accountId}", accountHandler.Get).Methods("GET")
	api.HandleFunc("/accounts/{accountId}", accountHandler.Delete).Methods("DELETE")
	api.HandleFunc("/accounts/{accountId}/expected-total", accountHandler.ExpectedTotal).Methods("GET")
	api.HandleFunc("/accounts/{accountId}/utilization", accountHandler.Utilization).Methods("GET")
	api.HandleFunc("/accounts/{accountId}/status", accountHandler.ChangeStatus).Methods("POST")
	api.HandleFunc("/customers/{customerId}/account", accountHandler.GetByCustomer).Methods("GET")

	api.HandleFunc("/accounts/{accountId}/draw-requests", drawHandler.Submit).Methods("POST")
	api.HandleFunc("/accounts/{accountId}/draw-requests/pending", drawHandler.ListPending).Methods("GET")
	api.HandleFunc("/draw-requests/{requestId}/approve", drawHandler.Approve).Methods("POST")
	api.HandleFunc("/draw-requests/{requestId}/deny", drawHandler.Deny).Methods("POST")

	api.HandleFunc("/accounts/{accountId}/payments", paymentHandler.Apply).Methods("POST")

	api.HandleFunc("/audit-events", auditHandler.Query).Methods("GET")

	return router
}
