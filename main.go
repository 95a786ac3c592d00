package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dipanshukale/CraftCrazy/config"
	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/dipanshukale/CraftCrazy/handlers"
	customMiddleware "github.com/dipanshukale/CraftCrazy/middleware"
	"github.com/dipanshukale/CraftCrazy/routes"
	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/utils"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const idempotencyTTL = 48 * time.Hour

func main() {
	// Load environment variables
	boot := config.NewLogger(os.Stdout, "info")
	config.LoadEnv(boot)

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	db, err := database.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Warn().Err(err).Msg("could not ensure indexes")
	}

	gateway, err := utils.NewPaymentProcessor(cfg.RazorpayKeyID, cfg.RazorpaySecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}

	// Event notifier: admin sockets, plus Kafka when brokers are configured
	hub := events.NewHub(cfg.AdminPanelURL, logger)
	go hub.Run(ctx)
	notifier := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafkaPub.Close()
		notifier = append(notifier, kafkaPub)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka event sink enabled")
	}

	v := validation.New(cfg.ShippingFee)
	orderRepo := database.NewOrderRepository(db)
	orderService := services.NewOrderService(orderRepo, database.NewIdempotencyRepository(db, idempotencyTTL), gateway, notifier, v, logger)
	invoiceService := services.NewInvoiceService(orderRepo)
	contactService := services.NewContactService(database.NewContactRepository(db), notifier, v, logger)
	productService := services.NewProductService(database.NewProductRepository(db), notifier, v, logger)
	demandService := services.NewDemandService(database.NewDemandRepository(db), v, logger)
	reviewService := services.NewReviewService(database.NewReviewRepository(db), v, logger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = v
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(logger)

	// Middleware
	e.Use(customMiddleware.RequestID())
	e.Use(customMiddleware.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(customMiddleware.Metrics())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins(cfg),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "If-Match"},
	}))

	// Setup routes
	routes.SetupRoutes(e, routes.Handlers{
		Orders:   handlers.NewOrderHandler(orderService),
		Invoices: handlers.NewInvoiceHandler(invoiceService),
		Contacts: handlers.NewContactHandler(contactService),
		Products: handlers.NewProductHandler(productService),
		Demands:  handlers.NewDemandHandler(demandService),
		Reviews:  handlers.NewReviewHandler(reviewService),
		Hub:      hub,
	})

	// Start the server
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr()).Msg("server starting")
		if err := e.Start(cfg.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}

func corsOrigins(cfg *config.Config) []string {
	origins := append([]string{}, cfg.AllowedOrigins...)
	if cfg.AdminPanelURL != "" {
		origins = append(origins, cfg.AdminPanelURL)
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
