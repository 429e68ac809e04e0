package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"storefront/internal/cart"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	sessionrepo "storefront/internal/repository/session"
	authsvc "storefront/internal/service/auth"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/orders"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

var version = "dev"

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		logger.Fatalf("init tracer: %v", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(version)
	if err != nil {
		logger.Fatalf("init meter: %v", err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	instruments, err := telemetry.Default()
	if err != nil {
		logger.Fatalf("init instruments: %v", err)
	}

	store, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open session store: %v", err)
	}
	defer closeStore()

	api, err := commerce.New(cfg.CommerceAPIURL, commerce.NewHTTPClient(cfg.RequestTimeout),
		log.New(os.Stdout, "[commerce] ", log.LstdFlags|log.LUTC|log.Lshortfile))
	if err != nil {
		logger.Fatalf("init commerce client: %v", err)
	}

	sessions := session.NewManager(store, logger)
	if err := sessions.Load(ctx); err != nil {
		logger.Printf("continuing anonymous: %v", err)
	}

	shoppingCart := cart.New()
	catalogService := catalogsvc.New(api, catalogsvc.ImageResolver{
		Origin:      api.Origin(),
		Placeholder: cfg.PlaceholderImageURL,
	}, logger)
	authService := authsvc.New(api, sessions, logger)
	checkoutService := checkoutsvc.New(api, sessions, shoppingCart, instruments, checkoutsvc.Options{
		PaymentMethod:  cfg.PaymentMethod,
		RequireAddress: cfg.CheckoutRequireAddress,
	}, logger)
	orderService := ordersvc.New(api, sessions, instruments, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Session:     sessions,
		Cart:        shoppingCart,
		Catalog:     catalogService,
		Auth:        authService,
		Checkout:    checkoutService,
		Orders:      orderService,
		Store:       store,
		Metrics:     metricsHandler,
		CartEvents:  instruments,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (commerce api %s, session backend %s)",
			cfg.HTTPAddr, cfg.CommerceAPIURL, cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func openSessionStore(ctx context.Context, cfg config.Config, logger *log.Logger) (sessionrepo.Repository, func(), error) {
	switch cfg.SessionBackend {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to db: %w", err)
		}
		return sessionrepo.NewPostgres(pool, cfg.SessionSlot, logger), pool.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return sessionrepo.NewRedis(client, cfg.SessionSlot), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
