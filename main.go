package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"condoledger/internal/audit"
	"condoledger/internal/auth"
	directorypostgres "condoledger/internal/directory/infrastructure/postgres"
	ledgerapp "condoledger/internal/ledger/application"
	ledger "condoledger/internal/ledger/domain"
	ledgerpostgres "condoledger/internal/ledger/infrastructure/postgres"
	ledgerhttp "condoledger/internal/ledger/interfaces/http"
	"condoledger/internal/ledger/notify"
	"condoledger/internal/observability/metrics"
	periodapp "condoledger/internal/period/application"
	periodpostgres "condoledger/internal/period/infrastructure/postgres"
	periodhttp "condoledger/internal/period/interfaces/http"
	reportapp "condoledger/internal/reporting/application"
	reportpostgres "condoledger/internal/reporting/infrastructure/postgres"
	reporthttp "condoledger/internal/reporting/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ledgerCfg, err := ledgerapp.LoadConfig()
	if err != nil {
		logger.Fatalf("ledger config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)
	clock := ledger.SystemClock{}

	transactionRepo := ledgerpostgres.NewTransactionRepository(db)
	arrearsRepo := ledgerpostgres.NewArrearsRecordRepository(db)
	configRepo := ledgerpostgres.NewArrearsConfigRepository(db)
	planRepo := ledgerpostgres.NewPaymentPlanRepository(db)
	settlementRepo := ledgerpostgres.NewSettlementRepository(db)
	historyRepo := ledgerpostgres.NewPaymentHistoryRepository(db)
	memberRepo := directorypostgres.NewMemberRepository(db)
	buildingRepo := directorypostgres.NewBuildingRepository(db)

	var notifier notify.Notifier
	if ledgerCfg.ReminderWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(ledgerCfg.ReminderWebhookURL)
	}

	quotaService, err := ledgerapp.NewQuotaService(transactionRepo, buildingRepo, memberRepo, clock, ledgerCfg.QuotaDueDay, logger)
	if err != nil {
		logger.Fatalf("quota service error: %v", err)
	}
	sweepService, err := ledgerapp.NewSweepService(transactionRepo, arrearsRepo, configRepo, buildingRepo, memberRepo, notifier, clock, logger)
	if err != nil {
		logger.Fatalf("sweep service error: %v", err)
	}
	lateFeeService, err := ledgerapp.NewLateFeeService(transactionRepo, configRepo, buildingRepo, clock, logger)
	if err != nil {
		logger.Fatalf("late fee service error: %v", err)
	}
	planService, err := ledgerapp.NewPlanService(transactionRepo, planRepo, clock, logger)
	if err != nil {
		logger.Fatalf("plan service error: %v", err)
	}
	settlementService, err := ledgerapp.NewSettlementService(settlementRepo, historyRepo, clock, logger)
	if err != nil {
		logger.Fatalf("settlement service error: %v", err)
	}

	balanceSource, err := periodpostgres.NewBalanceSource(db)
	if err != nil {
		logger.Fatalf("balance source error: %v", err)
	}
	periodRepo := periodpostgres.NewPeriodRepository(db)
	aggregator, err := periodapp.NewAggregator(balanceSource, periodRepo, logger)
	if err != nil {
		logger.Fatalf("period aggregator error: %v", err)
	}

	reportSource, err := reportpostgres.NewReportSource(db)
	if err != nil {
		logger.Fatalf("report source error: %v", err)
	}
	reportService, err := reportapp.NewReportService(reportSource, clock, logger)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}

	ledgerHandler, err := ledgerhttp.NewHandler(quotaService, sweepService, lateFeeService, planService, settlementService)
	if err != nil {
		logger.Fatalf("ledger handler error: %v", err)
	}
	periodHandler, err := periodhttp.NewHandler(aggregator)
	if err != nil {
		logger.Fatalf("period handler error: %v", err)
	}
	reportHandler, err := reporthttp.NewHandler(reportService)
	if err != nil {
		logger.Fatalf("reporting handler error: %v", err)
	}

	scheduler := ledgerapp.NewScheduler(
		quotaService, sweepService, lateFeeService,
		ledgerCfg.Schedule.SweepDailyAt, ledgerCfg.Schedule.QuotaMonthlyAt,
		ledgerCfg.Schedule.QuotaDay, logger,
	)
	go scheduler.Start(context.Background())

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)
	auditMiddleware := audit.Middleware(auditRepo, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/quotas/generate", ledgerHandler)
	mux.Handle("/api/v1/arrears/", ledgerHandler)
	mux.Handle("/api/v1/payment-plans", ledgerHandler)
	mux.Handle("/api/v1/payment-plans/", ledgerHandler)
	mux.Handle("/api/v1/payments", ledgerHandler)
	mux.Handle("/api/v1/payments/", ledgerHandler)
	mux.Handle("/api/v1/periods/", periodHandler)
	mux.Handle("/api/v1/buildings/", periodHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := loggingMiddleware(authMiddleware.Wrap(auditMiddleware(mux)), logger)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
