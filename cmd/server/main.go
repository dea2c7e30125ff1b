package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"storefront-delivery-service/internal/adapters/cache"
	"storefront-delivery-service/internal/adapters/distance"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/adapters/sheets"
	"storefront-delivery-service/internal/api"
	"storefront-delivery-service/internal/config"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/places"
	"storefront-delivery-service/internal/platform/db"
	"storefront-delivery-service/internal/platform/logging"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/pricing"
	"storefront-delivery-service/internal/schedule"
	"storefront-delivery-service/internal/services"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Sheets, routing APIs) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logCloser, err := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	loc, err := schedule.LoadLocation(cfg.Store.Timezone)
	if err != nil {
		return err
	}
	store := domain.Coordinates{Lat: cfg.Store.Lat, Lon: cfg.Store.Lon}

	policy := pricing.DefaultPolicy()
	policy.RatePerKm = cfg.Pricing.RatePerKm
	policy.MinFare = cfg.Pricing.MinFare
	policy.SurchargePercent = cfg.Pricing.SurchargePercent
	policy.NightStartHour = cfg.Pricing.NightStartHour
	policy.NightEndHour = cfg.Pricing.NightEndHour
	engine, err := pricing.NewEngine(policy, loc)
	if err != nil {
		return err
	}

	directory, err := places.LoadFile(cfg.Store.NeighborhoodSeed)
	if err != nil {
		return err
	}

	var database *sql.DB
	if cfg.Database.URL != "" {
		database, err = db.Open(ctx, cfg.Database.URL, db.DefaultPoolConfig())
		if err != nil {
			return err
		}
		defer database.Close()

		if err := repositories.InitSchema(ctx, database); err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// The durable cache, or none, still serves quotes.
			log.WithError(err).Warn("redis unavailable, continuing without hot distance cache")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	distanceCache := newDistanceCache(database, rdb, cfg)
	var geocodeCache ports.GeocodeCache
	if database != nil {
		geocodeCache = cache.NewSQLGeocodeCache(database, cfg.Routing.Provider)
	}

	provider, geocoder, err := newRouting(cfg, store, directory, distanceCache, geocodeCache)
	if err != nil {
		return err
	}

	sheetsClient := sheets.NewClient(sheets.ClientOptions{Timeout: cfg.Sheets.Timeout})

	scheduleSource, err := newScheduleSource(cfg, sheetsClient, database)
	if err != nil {
		return err
	}
	monitor, err := schedule.NewMonitor(scheduleSource, schedule.MonitorConfig{
		Location:     loc,
		Messages:     schedule.MessagesFor(cfg.App.Locale),
		Interval:     cfg.Store.RefreshInterval,
		FetchTimeout: cfg.Store.FetchTimeout,
	})
	if err != nil {
		return err
	}
	go monitor.Run(ctx)

	var menu *services.Menu
	if cfg.Sheets.CatalogURL != "" {
		catalogSource, err := sheets.NewCatalogSource(sheetsClient, cfg.Sheets.CatalogURL)
		if err != nil {
			return err
		}
		menu = services.NewMenu(catalogSource, cfg.Sheets.MenuTTL)
	}

	quoter := &services.Quoter{
		Store:    store,
		Distance: provider,
		Geocoder: geocoder,
		Engine:   engine,
		Places:   directory,
	}

	orderService := &services.OrderService{
		Quoter:           quoter,
		Menu:             menu,
		Status:           monitor,
		WhatsAppNumber:   cfg.Orders.WhatsAppNumber,
		EnforceOpenHours: cfg.Orders.EnforceOpenHours,
		Location:         loc,
	}
	if database != nil {
		orderService.Repository = repositories.NewPostgresOrderRepository(database)
	}
	if cfg.Sheets.OrderLogURL != "" {
		orderLog, err := sheets.NewOrderLogger(sheetsClient, cfg.Sheets.OrderLogURL, loc)
		if err != nil {
			return err
		}
		orderService.SheetLog = orderLog
	}

	if cfg.IsProduction() && cfg.App.CORSOrigin == "*" {
		log.Warn("CORS_ALLOWED_ORIGIN is \"*\" in production")
	}

	router := api.NewRouter(api.Deps{
		Quoter:     quoter,
		Orders:     orderService,
		Menu:       menu,
		Monitor:    monitor,
		Places:     directory,
		Geocoder:   geocoder,
		CORSOrigin: cfg.App.CORSOrigin,
	})

	// Timeouts are tuned for cold-cache quotes (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":     srv.Addr,
			"env":      cfg.App.Env,
			"provider": cfg.Routing.Provider,
			"schedule": cfg.Store.ScheduleSource,
		}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newDistanceCache layers Redis over Postgres when both are configured.
func newDistanceCache(database *sql.DB, rdb *redis.Client, cfg config.Config) ports.DistanceCache {
	var hot, cold ports.DistanceCache
	if rdb != nil {
		hot = cache.NewRedisDistanceCache(rdb, cfg.Routing.Provider, cfg.Redis.TTL)
	}
	if database != nil {
		cold = cache.NewSQLDistanceCache(database, cfg.Routing.Provider, 30*24*time.Hour)
	}

	switch {
	case hot != nil && cold != nil:
		return &cache.LayeredDistanceCache{Hot: hot, Cold: cold}
	case hot != nil:
		return hot
	case cold != nil:
		return cold
	default:
		return nil
	}
}

func newRouting(
	cfg config.Config,
	store domain.Coordinates,
	directory *places.Directory,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (ports.DistanceProvider, ports.Geocoder, error) {
	var (
		provider ports.DistanceProvider
		fallback ports.Geocoder
	)

	switch cfg.Routing.Provider {
	case "ors":
		ors, err := distance.NewORSDistanceProvider(cfg.Routing.ORSKey, distance.ORSOptions{
			Country:       cfg.Routing.Country,
			Focus:         &store,
			DistanceCache: distanceCache,
			GeocodeCache:  geocodeCache,
		})
		if err != nil {
			return nil, nil, err
		}
		provider, fallback = ors, ors
	case "google":
		google, err := distance.NewGoogleDistanceProvider(cfg.Routing.GoogleKey, distance.GoogleOptions{
			Region:        cfg.Routing.Country,
			Language:      cfg.Routing.Language,
			DistanceCache: distanceCache,
			GeocodeCache:  geocodeCache,
		})
		if err != nil {
			return nil, nil, err
		}
		provider, fallback = google, google
	default:
		known := make(map[string]domain.Coordinates, directory.Len())
		for _, n := range directory.All() {
			known[n.Name] = n.Coords
		}
		provider, fallback = distance.NewHaversineProvider(), distance.NewMockGeocoder(known)
	}

	switch cfg.Routing.Geocoder {
	case "none":
		return provider, nil, nil
	case "nominatim":
		return provider, distance.NewNominatimGeocoder(distance.NominatimOptions{
			BaseURL:  cfg.Routing.NominatimURL,
			Country:  cfg.Routing.Country,
			City:     cfg.Routing.City,
			Language: cfg.Routing.Language,
			Cache:    geocodeCache,
		}), nil
	default:
		return provider, fallback, nil
	}
}

func newScheduleSource(cfg config.Config, client *sheets.Client, database *sql.DB) (ports.ScheduleSource, error) {
	if cfg.Store.ScheduleSource == "postgres" {
		if database == nil {
			return nil, errors.New("schedule source postgres requires DATABASE_URL")
		}
		return repositories.NewPostgresScheduleSource(database), nil
	}
	return sheets.NewScheduleSource(client, cfg.Sheets.ScheduleURL)
}
