package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/cache"
	"delivery-client/internal/core/config"
	"delivery-client/internal/core/health"
	"delivery-client/internal/core/httpclient"
	"delivery-client/internal/core/logger"
	"delivery-client/internal/core/proxy"
	"delivery-client/internal/core/server"
	"delivery-client/internal/core/tracing"
	cartadapters "delivery-client/internal/features/cart/adapters"
	carthandler "delivery-client/internal/features/cart/handler"
	cartservice "delivery-client/internal/features/cart/service"
	catalogadapters "delivery-client/internal/features/catalog/adapters"
	cataloghandler "delivery-client/internal/features/catalog/handler"
	catalogservice "delivery-client/internal/features/catalog/service"
	checkoutadapters "delivery-client/internal/features/checkout/adapters"
	checkouthandler "delivery-client/internal/features/checkout/handler"
	checkoutports "delivery-client/internal/features/checkout/ports"
	checkoutservice "delivery-client/internal/features/checkout/service"
	couponadapters "delivery-client/internal/features/coupons/adapters"
	couponhandler "delivery-client/internal/features/coupons/handler"
	couponservice "delivery-client/internal/features/coupons/service"
	orderadapters "delivery-client/internal/features/orders/adapters"
	orderhandler "delivery-client/internal/features/orders/handler"
	orderservice "delivery-client/internal/features/orders/service"
	paymentadapters "delivery-client/internal/features/payment/adapters"
	paymenthandler "delivery-client/internal/features/payment/handler"
	paymentservice "delivery-client/internal/features/payment/service"
	sessionadapters "delivery-client/internal/features/session/adapters"
	sessionhandler "delivery-client/internal/features/session/handler"
	sessionservice "delivery-client/internal/features/session/service"

	"go.uber.org/zap"
)

const (
	version         = "1.0.0"
	lookupTimeout   = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Delivery Client API
// @version 1.0
// @description Local API over the cart, checkout and payment tracking of the delivery client.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "delivery-client", cfg.Tracing.Endpoint)
	if err != nil {
		l.Fatal("Failed to init tracing", zap.Error(err))
	}

	store, err := newStore(cfg.Store)
	if err != nil {
		l.Fatal("Failed to open local store", zap.Error(err))
	}

	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}

	backendHTTP, err := httpclient.NewClient("backend", cfg.Backend.Timeout, proxySettings)
	if err != nil {
		l.Fatal("Failed to build backend client", zap.Error(err))
	}
	client := backend.NewClient(cfg.Backend.URL, backendHTTP)
	if err := client.Ping(ctx); err != nil {
		l.Warn("Backend unreachable at startup", zap.Error(err))
	}

	// Session is both the token source and the target of 401/403 invalidation.
	sessionSvc := sessionservice.NewSessionService(ctx,
		sessionadapters.NewBackendAuth(client),
		sessionadapters.NewCacheSessionRepository(store),
	)
	client.SetTokenSource(sessionSvc)
	client.OnUnauthorized(sessionSvc.Invalidate)

	catalogSvc := catalogservice.NewCatalogService(catalogadapters.NewBackendCatalog(client))
	cartStore := cartservice.NewStore(ctx, cartadapters.NewCacheCartRepository(store))
	couponEngine := couponservice.NewEngine(
		couponadapters.NewBackendCoupons(client),
		couponadapters.NewCacheHandoffRepository(store),
	)
	payments := paymentservice.NewRegistry(
		paymentadapters.NewBackendStatusChecker(client),
		cartStore,
		cfg.Checkout.PollInterval,
	)

	lookupHTTP, err := httpclient.NewClient("cep", lookupTimeout, proxySettings)
	if err != nil {
		l.Fatal("Failed to build CEP lookup client", zap.Error(err))
	}

	var opener checkoutports.LinkOpener = checkoutadapters.NewLogOpener()
	var browser *checkoutadapters.BrowserOpener
	if cfg.Checkout.OpenLinksInBrowser {
		browser = checkoutadapters.NewBrowserOpener(proxySettings.HostPort())
		opener = browser
	}

	backendOrders := checkoutadapters.NewBackendOrders(client)
	orchestrator := checkoutservice.NewOrchestrator(checkoutservice.Deps{
		Cart:     cartStore,
		Coupons:  couponEngine,
		Session:  sessionSvc,
		Payments: payments,
		Orders:   backendOrders,
		History:  backendOrders,
		Postal:   checkoutadapters.NewBrasilAPIAdapter(cfg.Checkout.CEPLookupURL, lookupHTTP),
		Opener:   opener,
	})

	orderSvc := orderservice.NewOrdersService(orderadapters.NewBackendOrderHistory(client), catalogSvc, cartStore)

	h, err := health.New(version, health.Endpoints{
		RedisURL: cfg.Store.RedisURL,
		Store:    store,
		Backend:  client,
	})
	if err != nil {
		l.Fatal("Failed to build health checks", zap.Error(err))
	}

	srv := server.New(cfg)
	srv.App.Get("/health", health.Handler(h))
	srv.Mount(
		cataloghandler.NewCatalogHandler(catalogSvc),
		sessionhandler.NewSessionHandler(sessionSvc),
		carthandler.NewCartHandler(cartStore, catalogSvc),
		couponhandler.NewCouponsHandler(couponEngine),
		checkouthandler.NewCheckoutHandler(orchestrator),
		paymenthandler.NewPaymentHandler(payments),
		orderhandler.NewOrdersHandler(orderSvc),
	)

	go func() {
		if err := srv.Run(); err != nil {
			l.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Failed to stop server", zap.Error(err))
	}
	if err := payments.Shutdown(shutdownCtx); err != nil {
		l.Error("Payment trackers did not stop in time", zap.Error(err))
	}
	if browser != nil {
		if err := browser.Close(); err != nil {
			l.Error("Failed to close browser", zap.Error(err))
		}
	}
	if err := store.Close(); err != nil {
		l.Error("Failed to close store", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		l.Error("Failed to flush traces", zap.Error(err))
	}
}

func newStore(cfg config.StoreConfig) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		logger.Get().Info("Using in-process store")
		return cache.NewMemoryAdapter(), nil
	}
	return cache.NewRedisAdapter(cfg.RedisURL)
}
