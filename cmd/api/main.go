package main

import (
	"context"
	"fmt"
	"medimart-backend/config"
	"medimart-backend/internal/delivery/http/middleware"
	v1 "medimart-backend/internal/delivery/http/v1"
	"medimart-backend/internal/infrastructure/cache"
	"medimart-backend/internal/infrastructure/razorpay"
	"medimart-backend/internal/repository/pgxrepo"
	"medimart-backend/internal/usecase"
	"medimart-backend/pkg/logger"
	"medimart-backend/pkg/metrics"
	"medimart-backend/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := pgxrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	orderRepo := pgxrepo.NewOrderRepository(pgxPool)
	paymentRepo := pgxrepo.NewPaymentRepository(pgxPool)
	rateRepo := pgxrepo.NewRateTableRepository(pgxPool)
	trackingRepo := pgxrepo.NewTrackingRepository(pgxPool)
	txManager := pgxrepo.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Metrics
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Shipping Module
	rateCache := usecase.NewRateTableCache(rateRepo, cfg.RateTableTTL)
	shippingUC := usecase.NewShippingUsecase(rateCache)

	// Order Module
	orderUC := usecase.NewOrderUsecase(orderRepo, trackingRepo, shippingUC, txManager, appMetrics)

	// Fulfillment Module. No live carrier integration yet, so the feed is
	// nil and tracking serves the internal event log.
	fulfillmentUC := usecase.NewFulfillmentUsecase(orderRepo, trackingRepo, txManager, nil, memCache, cfg.TrackingSnapshotTTL, appMetrics)

	// Payment Module
	gateway := razorpay.New(cfg.PaymentKeyID, cfg.PaymentSecret, cfg.PaymentBaseURL, cfg.PaymentTimeout)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, paymentRepo, trackingRepo, gateway, txManager, cfg.PaymentCurrency, appMetrics)

	// Handlers
	orderHandler := v1.NewOrderHandler(orderUC, fulfillmentUC)
	paymentHandler := v1.NewPaymentHandler(paymentUC)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC, fulfillmentUC, paymentUC)
	adminConfigHandler := v1.NewAdminConfigHandler(rateRepo, rateCache)
	configHandler := v1.NewConfigHandler(memCache)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/enums", configHandler.GetEnums)

	// Checkout & Orders (Protected)
	mux.Handle("POST /api/v1/checkout", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.Checkout)))
	mux.Handle("GET /api/v1/orders", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.GetMyOrders)))
	mux.Handle("GET /api/v1/orders/{id}", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.GetOrder)))
	mux.Handle("GET /api/v1/orders/{id}/tracking", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.GetTracking)))

	// Payments. The callback is the provider webhook: unauthenticated, the
	// HMAC signature is verified inside.
	mux.Handle("POST /api/v1/payments/intent", middleware.AuthMiddleware(http.HandlerFunc(paymentHandler.CreateIntent)))
	mux.HandleFunc("POST /api/v1/payments/callback", paymentHandler.Callback)

	// Admin Orders
	mux.Handle("GET /api/v1/admin/orders", adminMiddleware(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminMiddleware(adminOrderHandler.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", adminMiddleware(adminOrderHandler.UpdateStatus))
	mux.Handle("GET /api/v1/admin/orders/{id}/history", adminMiddleware(adminOrderHandler.GetEvents))
	mux.Handle("GET /api/v1/admin/orders/{id}/payments", adminMiddleware(adminOrderHandler.GetPayments))

	// Admin Config
	mux.Handle("GET /api/v1/admin/config/shipping-rates", adminMiddleware(adminConfigHandler.GetShippingRates))
	mux.Handle("PUT /api/v1/admin/config/shipping-rates", adminMiddleware(adminConfigHandler.UpdateShippingRates))

	// Metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	// Shipment simulator stands in for a live carrier feed in dev and demo
	// environments.
	var simulator *usecase.ShipmentSimulator
	if cfg.SimulateShipments {
		simulator = usecase.NewShipmentSimulator(fulfillmentUC, orderRepo, cfg.SimulationInterval, cfg.SimulationStepOdds, cfg.PendingOrderTTL)
		simulator.Start(context.Background())
		log.Info().Dur("interval", cfg.SimulationInterval).Msg("Shipment simulator started")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()
	if simulator != nil {
		simulator.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
