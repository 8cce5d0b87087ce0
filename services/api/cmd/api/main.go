package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/app"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/clock"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/config"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/geo"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/notify"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/obs"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/payment"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/storage/policycache"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/storage/postgres"
	transporthttp "github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/transport/http"
	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	if err := godotenv.Load(); err != nil {
		logger.Printf("WARN: no .env file loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := obs.InitTracer(startupCtx, "garage-sale-api", cfg.OTLPEndpoint, cfg.Environment)
		if err != nil {
			logger.Printf("WARN: tracing disabled: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()

	resolver := geo.NewResolver(geo.NewGoogleGeocoder(cfg.GeocodeRegion), logger)

	var notifier app.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Printf("WARN: AMQP notifier unavailable, falling back to log: %v", err)
			notifier = notify.NewLog(logger)
		} else {
			defer func() { _ = amqpNotifier.Close() }()
			notifier = amqpNotifier
		}
	} else {
		notifier = notify.NewLog(logger)
	}

	var gateway app.CheckoutGateway
	if cfg.OmisePublicKey != "" && cfg.OmiseSecretKey != "" {
		gateway, err = payment.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.Currency)
		if err != nil {
			log.Fatalf("payment gateway: %v", err)
		}
	} else {
		logger.Printf("WARN: payment keys not set, paid publication disabled")
	}

	listingRepo := postgres.NewListingRepository(pool)
	policyRepo := postgres.NewPolicyRepository(pool)

	policySvc := app.NewPolicyService(policyRepo, policycache.New(), clk, logger)
	listingSvc := app.NewListingService(listingRepo, resolver, policySvc, gateway, clk, logger,
		app.WithListingFee(cfg.ListingFeeCents))
	searchSvc := app.NewSearchService(listingRepo, resolver, clk, logger,
		app.WithDefaultRadius(cfg.SearchRadiusKm))
	adminSvc := app.NewAdminService(listingRepo, notifier, clk, logger)
	sweepSvc := app.NewSweepService(listingRepo, clk, logger)

	adminIDs := cfg.AdminIDs()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/search", transporthttp.HandleSearch(searchSvc))
	mux.Handle("/listings", transporthttp.HandleListings(listingSvc))
	mux.Handle("/listings/", routeListings(listingSvc, adminIDs))
	mux.Handle("/admin/listings", transporthttp.RequireAdmin(adminIDs, transporthttp.HandleAdminListings(adminSvc)))
	mux.Handle("/admin/listings/", transporthttp.RequireAdmin(adminIDs, transporthttp.HandleAdminListingActions(adminSvc)))
	mux.Handle("/admin/policy", transporthttp.RequireAdmin(adminIDs, transporthttp.HandleAdminPolicy(policySvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.Origins(), mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweepLoop(stopCtx, sweepSvc, cfg.SweepInterval, logger)

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

// routeListings splits /listings/{id} from /listings/{id}/{action} so both
// handler families can live under one mux prefix.
func routeListings(svc *app.ListingService, adminIDs map[string]struct{}) http.Handler {
	byID := transporthttp.HandleListingByID(svc, adminIDs)
	actions := transporthttp.HandleListingActions(svc)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(strings.Split(strings.Trim(r.URL.Path, "/"), "/")) == 3 {
			actions.ServeHTTP(w, r)
			return
		}
		byID.ServeHTTP(w, r)
	})
}

func runSweepLoop(ctx context.Context, sweep *app.SweepService, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	// One pass at startup so a long-stopped service catches up immediately.
	runSweepOnce(ctx, sweep, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runSweepOnce(ctx, sweep, logger)
		}
	}
}

func runSweepOnce(ctx context.Context, sweep *app.SweepService, logger *log.Logger) {
	sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if _, err := sweep.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("WARN: sweep failed: %v", err)
	}
}
