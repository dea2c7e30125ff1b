package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    StoreConfig
	Pricing  PricingConfig
	Routing  RoutingConfig
	Sheets   SheetsConfig
	Orders   OrdersConfig
	Log      LogConfig
}

type AppConfig struct {
	Port       string
	Env        string
	Locale     string
	CORSOrigin string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type StoreConfig struct {
	Lat              float64
	Lon              float64
	Timezone         string
	ScheduleSource   string // sheets, postgres
	RefreshInterval  time.Duration
	FetchTimeout     time.Duration
	NeighborhoodSeed string
}

type PricingConfig struct {
	RatePerKm        int64
	MinFare          int64
	SurchargePercent int
	NightStartHour   int
	NightEndHour     int
}

type RoutingConfig struct {
	Provider     string // ors, google, mock
	ORSKey       string
	GoogleKey    string
	Geocoder     string // provider, nominatim, none
	NominatimURL string
	Country      string
	City         string
	Language     string
}

type SheetsConfig struct {
	ScheduleURL string
	CatalogURL  string
	OrderLogURL string
	Timeout     time.Duration
	MenuTTL     time.Duration
}

type OrdersConfig struct {
	WhatsAppNumber   string
	EnforceOpenHours bool
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

var (
	ErrMissingKey      = errors.New("missing required setting")
	ErrInvalidProvider = errors.New("invalid provider")
)

// Load reads the service configuration from the environment.
// A .env file, if any, must already have been loaded.
func Load() (Config, error) {
	cfg := Config{
		App: AppConfig{
			Port:       Get("PORT", "8080"),
			Env:        Get("APP_ENV", "development"),
			Locale:     Get("STORE_LOCALE", "en"),
			CORSOrigin: Get("CORS_ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			URL: Get("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     Get("REDIS_ADDR", ""),
			Password: Get("REDIS_PASSWORD", ""),
			DB:       GetInt("REDIS_DB", 0),
			TTL:      GetDuration("REDIS_DISTANCE_TTL", 24*time.Hour),
		},
		Store: StoreConfig{
			Lat:              GetFloat("STORE_LAT", 10.373750),
			Lon:              GetFloat("STORE_LON", -75.473580),
			Timezone:         Get("STORE_TIMEZONE", "America/Bogota"),
			ScheduleSource:   strings.ToLower(Get("SCHEDULE_SOURCE", "sheets")),
			RefreshInterval:  GetDuration("SCHEDULE_REFRESH_INTERVAL", 60*time.Second),
			FetchTimeout:     GetDuration("SCHEDULE_FETCH_TIMEOUT", 3*time.Second),
			NeighborhoodSeed: Get("NEIGHBORHOODS_PATH", "data/seeds/neighborhoods.json"),
		},
		Pricing: PricingConfig{
			RatePerKm:        int64(GetInt("DELIVERY_RATE_PER_KM", 2700)),
			MinFare:          int64(GetInt("DELIVERY_MIN_FARE", 3000)),
			SurchargePercent: GetInt("NIGHT_SURCHARGE_PERCENT", 40),
			NightStartHour:   GetInt("NIGHT_START_HOUR", 22),
			NightEndHour:     GetInt("NIGHT_END_HOUR", 6),
		},
		Routing: RoutingConfig{
			Provider:     strings.ToLower(Get("ROUTING_PROVIDER", "ors")),
			ORSKey:       Get("ORS_API_KEY", ""),
			GoogleKey:    Get("GOOGLE_MAPS_API_KEY", ""),
			Geocoder:     strings.ToLower(Get("GEOCODER", "provider")),
			NominatimURL: Get("NOMINATIM_URL", ""),
			Country:      Get("GEOCODE_COUNTRY", "CO"),
			City:         Get("GEOCODE_CITY", "Cartagena"),
			Language:     Get("GEOCODE_LANGUAGE", "es"),
		},
		Sheets: SheetsConfig{
			ScheduleURL: Get("SCHEDULE_URL", ""),
			CatalogURL:  Get("CATALOG_URL", ""),
			OrderLogURL: Get("ORDER_LOG_URL", ""),
			Timeout:     GetDuration("SHEETS_TIMEOUT", 10*time.Second),
			MenuTTL:     GetDuration("MENU_TTL", 5*time.Minute),
		},
		Orders: OrdersConfig{
			WhatsAppNumber:   Get("WHATSAPP_NUMBER", ""),
			EnforceOpenHours: GetBool("ENFORCE_OPEN_HOURS", false),
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "text"),
			Output: Get("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config load: %w", err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Routing.Provider {
	case "ors":
		if strings.TrimSpace(c.Routing.ORSKey) == "" {
			return fmt.Errorf("ORS_API_KEY: %w", ErrMissingKey)
		}
	case "google":
		if strings.TrimSpace(c.Routing.GoogleKey) == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY: %w", ErrMissingKey)
		}
	case "mock":
	default:
		return fmt.Errorf("ROUTING_PROVIDER %q: %w", c.Routing.Provider, ErrInvalidProvider)
	}

	switch c.Routing.Geocoder {
	case "provider", "nominatim", "none":
	default:
		return fmt.Errorf("GEOCODER %q: %w", c.Routing.Geocoder, ErrInvalidProvider)
	}

	switch c.Store.ScheduleSource {
	case "sheets":
		if strings.TrimSpace(c.Sheets.ScheduleURL) == "" {
			return fmt.Errorf("SCHEDULE_URL: %w", ErrMissingKey)
		}
	case "postgres":
		if strings.TrimSpace(c.Database.URL) == "" {
			return fmt.Errorf("DATABASE_URL: %w", ErrMissingKey)
		}
	default:
		return fmt.Errorf("SCHEDULE_SOURCE %q: %w", c.Store.ScheduleSource, ErrInvalidProvider)
	}

	return nil
}

func (c Config) IsProduction() bool { return c.App.Env == "production" }

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
