package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/turboost/turboost-backend/api/routes"
	"github.com/turboost/turboost-backend/internal/address"
	authsvc "github.com/turboost/turboost-backend/internal/auth"
	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	"github.com/turboost/turboost-backend/internal/catalog"
	checkoutsvc "github.com/turboost/turboost-backend/internal/checkout"
	mediasvc "github.com/turboost/turboost-backend/internal/media"
	productsvc "github.com/turboost/turboost-backend/internal/products"
	settingssvc "github.com/turboost/turboost-backend/internal/settings"
	shippingsvc "github.com/turboost/turboost-backend/internal/shipping"
	"github.com/turboost/turboost-backend/pkg/config"
	"github.com/turboost/turboost-backend/pkg/correios"
	"github.com/turboost/turboost-backend/pkg/db"
	"github.com/turboost/turboost-backend/pkg/logger"
	"github.com/turboost/turboost-backend/pkg/mercadopago"
	"github.com/turboost/turboost-backend/pkg/metrics"
	"github.com/turboost/turboost-backend/pkg/migrate"
	"github.com/turboost/turboost-backend/pkg/redis"
	"github.com/turboost/turboost-backend/pkg/session"
	"github.com/turboost/turboost-backend/pkg/storage/gcs"
	"github.com/turboost/turboost-backend/pkg/viacep"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	productRepo := productsvc.NewRepository(dbClient.DB())
	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	index, err := catalog.NewIndex(productRepo, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog index", err)
		os.Exit(1)
	}
	// the storefront serves an empty catalog until the first successful load
	if err := index.Load(context.Background()); err != nil {
		logg.Error(context.Background(), "initial catalog load failed", err)
	}

	correiosClient, err := correios.NewClient(cfg.Shipping.BaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create correios client", err)
		os.Exit(1)
	}
	rateFetcher, err := shippingsvc.NewCorreiosFetcher(correiosClient, index, cfg.Shipping.OriginCEP)
	if err != nil {
		logg.Error(context.Background(), "failed to create rate fetcher", err)
		os.Exit(1)
	}
	shippingManager, err := shippingsvc.NewManager(rateFetcher, cfg.Shipping.FetchTimeout, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping manager", err)
		os.Exit(1)
	}

	cartStorage, err := cartsvc.NewRedisStorage(redisClient, logg, cfg.Redis.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart storage", err)
		os.Exit(1)
	}
	cartManager, err := cartsvc.NewManager(cartStorage, func(sessionID string, revision uint64) {
		shippingManager.Invalidate(sessionID)
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	mpClient, err := mercadopago.NewClient(cfg.Payment.AccessToken, mercadopago.WithBaseURL(cfg.Payment.BaseURL))
	if err != nil {
		logg.Error(context.Background(), "failed to create payment client", err)
		os.Exit(1)
	}
	gateway, err := checkoutsvc.NewMercadoPagoGateway(mpClient, cfg.Payment.BackURLBase)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}
	orchestrator, err := checkoutsvc.NewOrchestrator(index, gateway, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout orchestrator", err)
		os.Exit(1)
	}

	cepClient := viacep.NewClient(viacep.WithBaseURL(cfg.ViaCEP.BaseURL))
	addressService, err := address.NewService(cepClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	settingsService, err := settingssvc.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	var mediaService *mediasvc.Service
	if cfg.GCS.Enabled() {
		gcsClient, err := gcs.NewClient(cfg.GCS)
		if err != nil {
			logg.Error(context.Background(), "failed to create gcs client", err)
			os.Exit(1)
		}
		mediaService, err = mediasvc.NewService(gcsClient, cfg.GCS.MaxUploadBytes)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, media uploads disabled")
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		AdminRepo:      authsvc.NewAdminRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		Registry:        registry,
		SessionVerifier: sessionManager,
		CatalogIndex:    index,
		CartManager:     cartManager,
		ShippingManager: shippingManager,
		Orchestrator:    orchestrator,
		AddressService:  addressService,
		SettingsService: settingsService,
		ProductService:  productService,
		AuthService:     authService,
		MediaService:    mediaService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
