package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/BYJDG/byjudge-main1/cmd/store/config"
	"github.com/BYJDG/byjudge-main1/internal/store"
	"github.com/BYJDG/byjudge-main1/internal/store/blobstore"
	"github.com/BYJDG/byjudge-main1/internal/store/data/database"
	"github.com/BYJDG/byjudge-main1/internal/store/data/dbrepository"
	"github.com/BYJDG/byjudge-main1/internal/store/notifier"
	"github.com/BYJDG/byjudge-main1/internal/store/reconciler"
	"github.com/BYJDG/byjudge-main1/internal/store/service"
	"github.com/BYJDG/byjudge-main1/pkg/logging"
	"github.com/BYJDG/byjudge-main1/pkg/pgxstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(zapcore.DebugLevel)
	if err != nil {
		log.Fatal(err)
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
	storage, err := pgxstorage.New(dbFactory)
	if err != nil {
		log.Fatal(err)
	}
	repository := dbrepository.New(storage, logger)
	transactionManager := pgxstorage.NewTransactionsManager(storage)

	blobs, err := blobstore.New(blobstore.Config{Dir: cfg.Blobs.Dir})
	if err != nil {
		log.Fatal(err)
	}

	webhook := notifier.NewWebhook(cfg.Notifier, logger)

	ordersService := service.NewOrders(transactionManager, repository, logger)
	receiptsService := service.NewReceipts(repository, blobs, webhook, logger)
	verificationService := service.NewVerification(transactionManager, repository, ordersService, webhook, logger)
	trackingService := service.NewTracking(repository)

	ordersReconciler := reconciler.New(cfg.Reconciler, repository, ordersService, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)

	server := store.NewServer(cfg.Server, tokenAuth, store.Services{
		OrderCreation: ordersService,
		OrderListing:  ordersService,
		OrderGetting:  ordersService,
		OrderCancel:   ordersService,
		OrderTracking: trackingService,
		AdminOrders:   ordersService,
		OrderUpdate:   ordersService,
		ReceiptUpload: receiptsService,
		ReceiptFetch:  receiptsService,
		ReceiptDelete: receiptsService,
		ReceiptFinder: receiptsService,
		AdminReceipts: receiptsService,
		ReceiptVerify: verificationService,
	}, logger)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, ordersReconciler, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(
	rootCtx context.Context,
	cfg *config.Config,
	server *store.Server,
	ordersReconciler *reconciler.Reconciler,
	logger *logging.ZapLogger,
) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		ordersReconciler.Run()
		return nil
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		ordersReconciler.Stop()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
