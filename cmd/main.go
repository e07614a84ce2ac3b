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
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/cancel_reservation"
	completeReservationHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/complete_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/confirm_reservation"
	createBlockedSlotHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/create_blocked_slot"
	createReservationHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/create_reservation"
	deleteBlockedSlotHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/delete_blocked_slot"
	getAvailabilityHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/get_availability"
	getLoyaltyProfileHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/get_loyalty_profile"
	getReservationHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/get_reservation"
	healthHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/health"
	listBlockedSlotsHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/list_blocked_slots"
	listReservationsHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/list_reservations"
	reconcileWebhookHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/reconcile_webhook"
	recordPaymentHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/record_payment"
	voidPaymentHandler "github.com/m04kA/SMC-BookingCore/internal/api/handlers/void_payment"
	"github.com/m04kA/SMC-BookingCore/internal/api/middleware"
	"github.com/m04kA/SMC-BookingCore/internal/config"
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	webhookCache "github.com/m04kA/SMC-BookingCore/internal/infra/cache/webhooks"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
	blockedSlotRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/blockedslot"
	catalogRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/catalog"
	loyaltyRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/loyalty"
	paymentRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/payment"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-BookingCore/internal/integrations/events"
	mollieClient "github.com/m04kA/SMC-BookingCore/internal/integrations/mollie"
	blockedSlotsService "github.com/m04kA/SMC-BookingCore/internal/service/blockedslots"
	loyaltyService "github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
	reservationsService "github.com/m04kA/SMC-BookingCore/internal/service/reservations"
	completeReservationUC "github.com/m04kA/SMC-BookingCore/internal/usecase/complete_reservation"
	createReservationUC "github.com/m04kA/SMC-BookingCore/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-BookingCore/internal/usecase/get_availability"
	reconcilePaymentUC "github.com/m04kA/SMC-BookingCore/internal/usecase/reconcile_payment"
	recordPaymentUC "github.com/m04kA/SMC-BookingCore/internal/usecase/record_payment"
	voidPaymentUC "github.com/m04kA/SMC-BookingCore/internal/usecase/void_payment"
	"github.com/m04kA/SMC-BookingCore/pkg/clock"
	"github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingCore/pkg/logger"
	"github.com/m04kA/SMC-BookingCore/pkg/metrics"
	"github.com/m04kA/SMC-BookingCore/pkg/simpletxmanager"
	"github.com/m04kA/SMC-BookingCore/pkg/txmanager"
)

// TxManager contract shared by every use case and service
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evs ...domain.LedgerEvent) error
}

type ProcessedCache interface {
	Seen(ctx context.Context, ev *domain.NormalizedPaymentEvent) (bool, error)
	Remember(ctx context.Context, ev *domain.NormalizedPaymentEvent) error
}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BookingCore...")

	zone, err := clock.Load(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Repositories run on the metrics wrapper when metrics are enabled
	var (
		executor dbmetrics.DBExecutor
		txMgr    TxManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	catalogRepository := catalogRepo.NewRepository(executor)
	reservationRepository := reservationRepo.NewRepository(executor)
	paymentRepository := paymentRepo.NewRepository(executor)
	loyaltyRepository := loyaltyRepo.NewRepository(executor)
	blockedSlotRepository := blockedSlotRepo.NewRepository(executor)

	// Ledger event stream
	var publisher EventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		writer.WriteTimeout = time.Duration(cfg.Kafka.WriteTimeout) * time.Second
		kafkaPublisher := events.NewPublisher(writer, log)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error("Failed to close kafka writer: %v", err)
			}
		}()
		publisher = kafkaPublisher
		log.Info("Publishing ledger events to kafka topic=%s brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}

	// Processed webhook short-circuit
	var processed ProcessedCache = webhookCache.NopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// the database constraints still deduplicate; only the fast path is lost
			log.Warn("Redis unavailable at %s, webhook cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			processed = webhookCache.NewCache(redisClient, time.Duration(cfg.Redis.ProcessedTTL)*time.Second)
			log.Info("Webhook cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.ProcessedTTL)
		}
		cancel()
	}

	// Payment provider adapters
	registry := gateways.NewRegistry()
	if cfg.Gateways.Stripe.Enabled {
		registry.Register(gateways.NewStripeAdapter(
			cfg.Gateways.Stripe.WebhookSecret,
			time.Duration(cfg.Gateways.Stripe.ToleranceSeconds)*time.Second,
		))
	}
	if cfg.Gateways.PayPal.Enabled {
		registry.Register(gateways.NewPayPalAdapter(cfg.Gateways.PayPal.WebhookID, cfg.Gateways.PayPal.WebhookSecret))
	}
	if cfg.Gateways.Mollie.Enabled {
		client := mollieClient.NewClient(
			cfg.Gateways.Mollie.APIURL,
			cfg.Gateways.Mollie.APIKey,
			time.Duration(cfg.Gateways.Mollie.Timeout)*time.Second,
			log,
		)
		registry.Register(gateways.NewMollieAdapter(client))
	}
	if cfg.Gateways.SumUp.Enabled {
		registry.Register(gateways.NewSumUpAdapter(cfg.Gateways.SumUp.WebhookSecret))
	}
	log.Info("Payment adapters registered: %v", registry.Providers())

	bookingRules := domain.BookingRules{
		SlotStepMinutes:        cfg.Booking.SlotStepMinutes,
		PreparationBufferMin:   cfg.Booking.PreparationBufferMin,
		DefaultServiceDuration: cfg.Booking.DefaultServiceDuration,
	}
	loyaltyRules := domain.LoyaltyRules{
		IndividualThreshold: cfg.Loyalty.IndividualThreshold,
		PackageThreshold:    cfg.Loyalty.PackageThreshold,
		IndividualDiscount:  cfg.Loyalty.IndividualDiscount,
		PackageDiscount:     cfg.Loyalty.PackageDiscount,
	}

	// Services
	loyaltySvc := loyaltyService.NewService(
		loyaltyRepository,
		txMgr,
		loyaltyRules,
		metricsCollector,
		cfg.Metrics.ServiceName,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		paymentRepository,
		txMgr,
		publisher,
		log,
	).WithTimeProvider(zone)
	blockedSlotsSvc := blockedSlotsService.NewService(
		blockedSlotRepository,
		catalogRepository,
		cfg.Booking.SlotStepMinutes,
		log,
	)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalogRepository,
		reservationRepository,
		blockedSlotRepository,
		bookingRules,
		log,
	).WithTimeProvider(zone)

	createReservationUseCase := createReservationUC.NewUseCase(
		catalogRepository,
		reservationRepository,
		blockedSlotRepository,
		txMgr,
		publisher,
		metricsCollector,
		bookingRules,
		cfg.Booking.Currency,
		cfg.Metrics.ServiceName,
		log,
	).WithTimeProvider(zone)

	completeReservationUseCase := completeReservationUC.NewUseCase(
		reservationRepository,
		loyaltySvc,
		txMgr,
		publisher,
		log,
	).WithTimeProvider(zone)

	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		reservationRepository,
		paymentRepository,
		loyaltySvc,
		txMgr,
		publisher,
		log,
	).WithTimeProvider(zone)

	voidPaymentUseCase := voidPaymentUC.NewUseCase(
		reservationRepository,
		loyaltySvc,
		txMgr,
		publisher,
		log,
	).WithTimeProvider(zone)

	reconcilePaymentUseCase := reconcilePaymentUC.NewUseCase(
		registry,
		reservationRepository,
		paymentRepository,
		loyaltySvc,
		processed,
		txMgr,
		publisher,
		metricsCollector,
		cfg.Metrics.ServiceName,
		log,
	).WithTimeProvider(zone)

	// Handlers
	health := healthHandler.NewHandler(db)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	listReservations := listReservationsHandler.NewHandler(reservationsSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(reservationsSvc, log)
	completeReservation := completeReservationHandler.NewHandler(completeReservationUseCase, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)
	voidPayment := voidPaymentHandler.NewHandler(voidPaymentUseCase, log)
	getLoyaltyProfile := getLoyaltyProfileHandler.NewHandler(loyaltySvc, log)
	listBlockedSlots := listBlockedSlotsHandler.NewHandler(blockedSlotsSvc, log)
	createBlockedSlot := createBlockedSlotHandler.NewHandler(blockedSlotsSvc, log)
	deleteBlockedSlot := deleteBlockedSlotHandler.NewHandler(blockedSlotsSvc, log)
	reconcileWebhook := reconcileWebhookHandler.NewHandler(reconcilePaymentUseCase, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (rate limited)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	webhooks := r.PathPrefix("/webhooks").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		public.Use(limiter.Middleware)
		webhooks.Use(limiter.Middleware)
		log.Info("Rate limiting public routes: %.1f req/s, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Payment provider notifications authenticate with their own signatures
	webhooks.HandleFunc("/{provider}", reconcileWebhook.Handle).Methods(http.MethodPost)
	public.HandleFunc("/organizations/{organizationId}/locations/{locationId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (bearer token)
	// ============================================================

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Auth)

	// --- Reservations ---
	protected.HandleFunc("/organizations/{organizationId}/reservations",
		createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/organizations/{organizationId}/locations/{locationId}/reservations",
		listReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/complete", completeReservation.Handle).Methods(http.MethodPatch)

	// --- Payments ---
	protected.HandleFunc("/reservations/{reservationId}/payments", recordPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/payments", voidPayment.Handle).Methods(http.MethodDelete)

	// --- Loyalty ---
	protected.HandleFunc("/users/{userId}/loyalty", getLoyaltyProfile.Handle).Methods(http.MethodGet)

	// --- Schedule ---
	protected.HandleFunc("/organizations/{organizationId}/locations/{locationId}/blocked-slots",
		listBlockedSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/organizations/{organizationId}/locations/{locationId}/blocked-slots",
		createBlockedSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/organizations/{organizationId}/blocked-slots/{blockedSlotId}",
		deleteBlockedSlot.Handle).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
