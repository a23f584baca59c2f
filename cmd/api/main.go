package main

import (
	"fmt"
	"net/http"

	"github.com/awtadhr/payroll-backend-go/internal/config"
	appHTTP "github.com/awtadhr/payroll-backend-go/internal/handler/http"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/cache"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/cron"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/database"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/messaging/kafka"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/sse"
	"github.com/awtadhr/payroll-backend-go/internal/repository/postgresql"
	ledgerService "github.com/awtadhr/payroll-backend-go/internal/service/ledger"
	"github.com/awtadhr/payroll-backend-go/internal/service/master"
	payrollService "github.com/awtadhr/payroll-backend-go/internal/service/payroll"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	challanRepo := postgresql.NewChallanRepository(db)
	entryRepo := postgresql.NewEntryRepository(db)
	designationRepo := postgresql.NewDesignationRepository(db)
	sectionRepo := postgresql.NewSectionRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	transactor := postgresql.NewTransactor(db)

	referenceCache := cache.Noop()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		referenceCache = cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	}

	bus := events.NewBus()
	bus.Subscribe(master.CacheInvalidator(referenceCache))

	hub := sse.NewHub()
	bus.Subscribe(hub.Subscriber())

	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		bus.Subscribe(publisher.Subscriber())
	}

	ledgerSvc := ledgerService.NewLedgerService(transactor, loanRepo, challanRepo, entryRepo, employeeRepo, bus)
	masterSvc := master.NewMasterService(transactor, designationRepo, sectionRepo, branchRepo, referenceCache, cfg.Redis.CacheTTL, bus)
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, employeeRepo, entryRepo, bus)

	scheduler := cron.NewScheduler()
	if cfg.Payroll.AutoRunEnabled {
		scheduler.AddJob("payroll-auto-run", cfg.Payroll.AutoRunInterval, payrollService.AutoRunJob(payrollSvc))
	}
	scheduler.Start()
	defer scheduler.Stop()

	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc)
	masterHandler := appHTTP.NewMasterHandler(masterSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(cfg.App.Env, ledgerHandler, masterHandler, payrollHandler, eventsHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
