package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookTrialHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/book_trial"
	cancelTrialHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/cancel_trial"
	checkCapacityHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/check_capacity"
	createSubscriptionHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/create_subscription"
	extendSubscriptionHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/extend_subscription"
	getAttendanceSummaryHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/get_attendance_summary"
	getMemberSubscriptionsHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/get_member_subscriptions"
	getSubscriptionHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/get_subscription"
	listSlotsHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/list_slots"
	markAttendanceHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/mark_attendance"
	resolveTrialHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/resolve_trial"
	setExtraDaysHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/set_extra_days"
	transferSlotHandler "github.com/amar4h/rituyog-booking/internal/api/handlers/transfer_slot"
	"github.com/amar4h/rituyog-booking/internal/api/middleware"
	"github.com/amar4h/rituyog-booking/internal/config"
	assignmentRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/assignment"
	attendanceRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/attendance"
	invoiceRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/invoice"
	leadRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/lead"
	memberRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/member"
	planRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/plan"
	settingsRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/settings"
	slotRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/slot"
	subscriptionRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/subscription"
	trialRepo "github.com/amar4h/rituyog-booking/internal/infra/storage/trial"
	invoicingClient "github.com/amar4h/rituyog-booking/internal/integrations/invoicing"
	attendanceService "github.com/amar4h/rituyog-booking/internal/service/attendance"
	capacityService "github.com/amar4h/rituyog-booking/internal/service/capacity"
	subscriptionsService "github.com/amar4h/rituyog-booking/internal/service/subscriptions"
	trialsService "github.com/amar4h/rituyog-booking/internal/service/trials"
	bookTrialUC "github.com/amar4h/rituyog-booking/internal/usecase/book_trial"
	createSubscriptionUC "github.com/amar4h/rituyog-booking/internal/usecase/create_subscription"
	transferSlotUC "github.com/amar4h/rituyog-booking/internal/usecase/transfer_slot"
	"github.com/amar4h/rituyog-booking/pkg/dbmetrics"
	"github.com/amar4h/rituyog-booking/pkg/logger"
	"github.com/amar4h/rituyog-booking/pkg/metrics"
	"github.com/amar4h/rituyog-booking/pkg/simpletxmanager"
	"github.com/amar4h/rituyog-booking/pkg/txmanager"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting rituyog-booking...")
	log.Info("Configuration loaded from config.toml")

	// Initialize metrics (if enabled)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Connect to the database
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Configure the connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize the invoicing client
	invoicing := invoicingClient.NewClient(
		cfg.Booking.InvoicingURL,
		time.Duration(cfg.Booking.InvoicingTimeout)*time.Second,
		log,
	)
	log.Info("Invoicing client initialized (url=%s, timeout=%ds)",
		cfg.Booking.InvoicingURL, cfg.Booking.InvoicingTimeout)

	// Transaction manager interface shared by services and use cases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Repositories accept either the plain pool or the metrics wrapper
	var dbExec dbmetrics.DBExecutor = db

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		dbExec = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	slotRepository := slotRepo.NewRepository(dbExec)
	memberRepository := memberRepo.NewRepository(dbExec)
	leadRepository := leadRepo.NewRepository(dbExec)
	planRepository := planRepo.NewRepository(dbExec)
	subscriptionRepository := subscriptionRepo.NewRepository(dbExec)
	assignmentRepository := assignmentRepo.NewRepository(dbExec)
	invoiceRepository := invoiceRepo.NewRepository(dbExec)
	trialRepository := trialRepo.NewRepository(dbExec)
	attendanceRepository := attendanceRepo.NewRepository(dbExec)
	settingsRepository := settingsRepo.NewRepository(dbExec)

	// Initialize services
	capacitySvc := capacityService.NewService(
		subscriptionRepository,
		trialRepository,
		slotRepository,
		log,
	)
	subscriptionsSvc := subscriptionsService.NewService(
		subscriptionRepository,
		txMgr,
		log,
	)
	attendanceSvc := attendanceService.NewService(
		attendanceRepository,
		memberRepository,
		subscriptionRepository,
		settingsRepository,
		txMgr,
		log,
	)
	trialsSvc := trialsService.NewService(
		trialRepository,
		leadRepository,
		txMgr,
		log,
	)

	// Initialize use cases
	createSubscriptionUseCase := createSubscriptionUC.NewUseCase(
		memberRepository,
		planRepository,
		slotRepository,
		subscriptionRepository,
		assignmentRepository,
		invoiceRepository,
		capacitySvc,
		invoicing,
		txMgr,
		log,
	)
	transferSlotUseCase := transferSlotUC.NewUseCase(
		subscriptionRepository,
		slotRepository,
		memberRepository,
		assignmentRepository,
		capacitySvc,
		txMgr,
		log,
	)
	bookTrialUseCase := bookTrialUC.NewUseCase(
		leadRepository,
		trialRepository,
		memberRepository,
		subscriptionRepository,
		slotRepository,
		settingsRepository,
		capacitySvc,
		txMgr,
		log,
	)

	// Initialize handlers
	listSlots := listSlotsHandler.NewHandler(capacitySvc, log)
	checkCapacity := checkCapacityHandler.NewHandler(capacitySvc, log)
	createSubscription := createSubscriptionHandler.NewHandler(createSubscriptionUseCase, log)
	getSubscription := getSubscriptionHandler.NewHandler(subscriptionsSvc, log)
	getMemberSubscriptions := getMemberSubscriptionsHandler.NewHandler(subscriptionsSvc, log)
	extendSubscription := extendSubscriptionHandler.NewHandler(subscriptionsSvc, log)
	setExtraDays := setExtraDaysHandler.NewHandler(subscriptionsSvc, log)
	transferSlot := transferSlotHandler.NewHandler(transferSlotUseCase, log)
	bookTrial := bookTrialHandler.NewHandler(bookTrialUseCase, log)
	resolveTrial := resolveTrialHandler.NewHandler(trialsSvc, log)
	cancelTrial := cancelTrialHandler.NewHandler(trialsSvc, log)
	markAttendance := markAttendanceHandler.NewHandler(attendanceSvc, log)
	getAttendanceSummary := getAttendanceSummaryHandler.NewHandler(attendanceSvc, log)

	// Configure the router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (no authentication)
	// ============================================================

	// Slot schedule with per-date occupancy
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)

	// Seat availability for a slot over a date window
	api.HandleFunc("/slots/{slotId}/capacity", checkCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (require X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Subscriptions ---
	protected.HandleFunc("/subscriptions", createSubscription.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/subscriptions/{subscriptionId}", getSubscription.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions/{subscriptionId}/extend", extendSubscription.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/subscriptions/{subscriptionId}/extra-days", setExtraDays.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/subscriptions/{subscriptionId}/transfer", transferSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/members/{memberId}/subscriptions", getMemberSubscriptions.Handle).Methods(http.MethodGet)

	// --- Trials ---
	protected.HandleFunc("/trials", bookTrial.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/trials/{trialId}/attended", resolveTrial.HandleAttended).Methods(http.MethodPatch)
	protected.HandleFunc("/trials/{trialId}/no-show", resolveTrial.HandleNoShow).Methods(http.MethodPatch)
	protected.HandleFunc("/trials/{trialId}/cancel", cancelTrial.Handle).Methods(http.MethodPatch)

	// --- Attendance ---
	protected.HandleFunc("/attendance", markAttendance.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/members/{memberId}/attendance/summary", getAttendanceSummary.Handle).Methods(http.MethodGet)

	// HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop the connection pool metrics collector
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
