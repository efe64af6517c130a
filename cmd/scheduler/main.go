package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/fundwell/credit-engine/internal/config"
	"github.com/fundwell/credit-engine/internal/repository"
	"github.com/fundwell/credit-engine/internal/service"
)

func main() {
	log.Println("Starting credit-engine scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db)
	drawRepo := repository.NewDrawRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	transactor := repository.NewTransactor(db)

	// The scheduler never serves reads, so no redis snapshot cache is wired.
	ledgerService := service.NewLedgerService(accountRepo, drawRepo, auditRepo, transactor, nil, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, ledgerService)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, ledger *service.LedgerService) {
	// Daily job rolling forward advisory next-payment dates (runs at midnight)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		log.Println("Running daily payment date advance job...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		advanced, err := ledger.AdvancePaymentDates(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("Error advancing payment dates: %v", err)
			return
		}
		log.Printf("Advanced next payment date on %d accounts", advanced)
	})
	if err != nil {
		log.Printf("Error scheduling payment date advance job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}
