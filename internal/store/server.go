package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/BYJDG/byjudge-main1/internal/store/handlers"
	"github.com/BYJDG/byjudge-main1/internal/store/middleware"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

// Services bundles everything the HTTP layer needs. Each handler still
// depends only on its own narrow interface.
type Services struct {
	OrderCreation handlers.OrderCreationService
	OrderListing  handlers.OrderListingService
	OrderGetting  handlers.OrderGettingService
	OrderCancel   handlers.OrderCancelService
	OrderTracking handlers.OrderTrackingService
	AdminOrders   handlers.AdminOrdersService
	OrderUpdate   handlers.AdminOrderUpdateService
	ReceiptUpload handlers.ReceiptUploadService
	ReceiptFetch  handlers.ReceiptFetchService
	ReceiptDelete handlers.ReceiptDeleteService
	ReceiptFinder handlers.OrderReceiptFinder
	AdminReceipts handlers.AdminReceiptsService
	ReceiptVerify handlers.ReceiptVerifyService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: createMux(cfg, tokenAuth, services, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *chi.Mux {
	orderCreationHandler := handlers.NewOrderCreationHandler(services.OrderCreation, logger)
	myOrdersHandler := handlers.NewMyOrdersHandler(services.OrderListing, logger)
	orderGettingHandler := handlers.NewOrderGettingHandler(services.OrderGetting, services.ReceiptFinder, logger)
	orderCancelHandler := handlers.NewOrderCancelHandler(services.OrderCancel, logger)
	orderTrackingHandler := handlers.NewOrderTrackingHandler(services.OrderTracking, logger)
	receiptUploadHandler := handlers.NewReceiptUploadHandler(services.ReceiptUpload, cfg.MaxUploadSize, logger)
	receiptFetchHandler := handlers.NewReceiptFetchHandler(services.ReceiptFetch, logger)
	receiptDeleteHandler := handlers.NewReceiptDeleteHandler(services.ReceiptDelete, logger)
	adminOrdersHandler := handlers.NewAdminOrdersHandler(services.AdminOrders, logger)
	adminOrderUpdateHandler := handlers.NewAdminOrderUpdateHandler(services.OrderUpdate, logger)
	adminReceiptsHandler := handlers.NewAdminReceiptsHandler(services.AdminReceipts, logger)
	receiptVerifyHandler := handlers.NewReceiptVerifyHandler(services.ReceiptVerify, logger)

	loggerContext := middleware.NewLoggerContext()
	panicRecover := middleware.NewPanicRecover(logger)
	userGuard := middleware.NewRoleGuard(middleware.UserRole)
	adminGuard := middleware.NewRoleGuard(middleware.AdminRole)

	router := chi.NewRouter()
	router.Use(loggerContext.CreateHandler)
	router.Use(panicRecover.CreateHandler)

	router.Route("/api/orders", func(router chi.Router) {
		router.Get("/track/{orderNumber}", orderTrackingHandler.ServeHTTP)

		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))
			router.Use(userGuard.CreateHandler)

			router.Post("/", orderCreationHandler.ServeHTTP)
			router.Get("/my-orders", myOrdersHandler.ServeHTTP)
			router.Get("/{id}", orderGettingHandler.ServeHTTP)
			router.Put("/{id}/cancel", orderCancelHandler.ServeHTTP)
		})
	})

	router.Route("/api/upload", func(router chi.Router) {
		router.Use(jwtauth.Verifier(tokenAuth))
		router.Use(jwtauth.Authenticator(tokenAuth))
		router.Use(userGuard.CreateHandler)

		router.Post("/receipt", receiptUploadHandler.ServeHTTP)
		router.Get("/receipt/{filename}", receiptFetchHandler.ServeHTTP)
		router.Delete("/receipt/{id}", receiptDeleteHandler.ServeHTTP)
	})

	router.Route("/api/admin", func(router chi.Router) {
		router.Use(jwtauth.Verifier(tokenAuth))
		router.Use(jwtauth.Authenticator(tokenAuth))
		router.Use(adminGuard.CreateHandler)

		router.Get("/orders", adminOrdersHandler.ServeHTTP)
		router.Put("/orders/{id}/status", adminOrderUpdateHandler.ServeHTTP)
		router.Get("/receipts", adminReceiptsHandler.ServeHTTP)
		router.Put("/receipts/{id}/verify", receiptVerifyHandler.ServeHTTP)
	})

	return router
}
