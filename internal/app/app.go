package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/blobstore"
	"github.com/corray333/backend-labs/storefront/internal/dal/changefeed"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	orderrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/product/postgres"
	"github.com/corray333/backend-labs/storefront/internal/otel"
	"github.com/corray333/backend-labs/storefront/internal/service/services/storefrontsvc"
	httptransport "github.com/corray333/backend-labs/storefront/internal/transport/http"
	outboxworker "github.com/corray333/backend-labs/storefront/internal/worker/outbox"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	storefrontSvc  *storefrontsvc.StorefrontService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	exchange := viper.GetString("rabbitmq.products_exchange")
	if err := rabbitMqClient.DeclareFanoutExchange(exchange); err != nil {
		panic("failed to declare exchange " + exchange + ": " + err.Error())
	}

	productRepository := productrepo.NewPostgresProductRepository(postgresClient.DB())
	orderRepository := orderrepo.NewPostgresOrderRepository(postgresClient.DB())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.DB())

	publisher := changefeed.NewPublisher(
		rabbitMqClient,
		outboxRepository,
		exchange,
		viper.GetInt("rabbitmq.outbox.max_retries"),
	)
	subscriber := changefeed.NewSubscriber(
		changefeed.NewAMQPSource(rabbitMqClient, exchange),
		productRepository,
		changefeed.WithResubscribe(
			time.Duration(viper.GetInt("rabbitmq.resubscribe.delay_seconds"))*time.Second,
			viper.GetInt("rabbitmq.resubscribe.attempts"),
		),
	)
	blobs := blobstore.MustNewLocalStore()

	storefrontSvc := storefrontsvc.MustNewStorefrontService(
		storefrontsvc.WithProductRepository(productRepository),
		storefrontsvc.WithOrderRepository(orderRepository),
		storefrontsvc.WithBlobStore(blobs),
		storefrontsvc.WithChangePublisher(publisher),
		storefrontsvc.WithSubscriber(subscriber),
	)

	transport := httptransport.NewHTTPTransport(
		storefrontSvc,
		httptransport.WithMedia(blobstore.PublicPath(), blobs.Handler()),
	)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		storefrontSvc:  storefrontSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.storefrontSvc.StartSync(ctx); err != nil {
		slog.Error("Catalog sync failed to start", "error", err)
		a.gracefulShutdown()
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(gctx)

		return nil
	})

	// A lost change feed exits non-zero so the process gets restarted.
	syncLost := false
	select {
	case <-gctx.Done():
		slog.Info("Shutdown signal received")
	case <-a.storefrontSvc.SyncDone():
		slog.Error("Catalog sync ended, shutting down")
		syncLost = true
	}

	a.gracefulShutdown()

	if err := g.Wait(); err != nil {
		slog.Error("Application stopped with error", "error", err)
	}
	if syncLost {
		os.Exit(1)
	}
}

// gracefulShutdown stops components in order: HTTP server, catalog sync,
// outbox worker, RabbitMQ, PostgreSQL and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.storefrontSvc.StopSync()
	slog.Info("Catalog sync stopped")

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.postgresClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
