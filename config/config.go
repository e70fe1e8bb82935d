package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Payment Provider
	PaymentKeyID    string
	PaymentSecret   string
	PaymentBaseURL  string
	PaymentCurrency string
	PaymentTimeout  time.Duration
	// Shipping
	RateTableTTL time.Duration
	// Tracking
	TrackingSnapshotTTL time.Duration
	// Degraded-mode shipment simulation (no live carrier integration)
	SimulateShipments   bool
	SimulationInterval  time.Duration
	SimulationStepOdds  float64
	// Stale pending orders: 0 disables auto-cancel
	PendingOrderTTL time.Duration
}

func LoadConfig() *Config {
	// A specific config file may be requested via env var; otherwise fall
	// back to .env for local dev. Prod relies on system env vars.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		PaymentKeyID:    getEnv("PAYMENT_KEY_ID", ""),
		PaymentSecret:   getEnv("PAYMENT_SECRET", ""),
		PaymentBaseURL:  getEnv("PAYMENT_BASE_URL", "https://api.razorpay.com"),
		PaymentCurrency: getEnv("PAYMENT_CURRENCY", "INR"),
		PaymentTimeout:  getDurationEnv("PAYMENT_TIMEOUT", 10*time.Second),

		// Rate table lives in process memory for 5 minutes between fetches
		RateTableTTL: getDurationEnv("RATE_TABLE_TTL", 5*time.Minute),

		// Tracking pages poll every 30s; snapshots are cached for one cycle
		TrackingSnapshotTTL: getDurationEnv("TRACKING_SNAPSHOT_TTL", 30*time.Second),

		SimulateShipments:  getBoolEnv("SIMULATE_SHIPMENTS", false),
		SimulationInterval: getDurationEnv("SIMULATION_INTERVAL", 30*time.Second),
		SimulationStepOdds: getFloatEnv("SIMULATION_STEP_ODDS", 0.25),

		PendingOrderTTL: getDurationEnv("PENDING_ORDER_TTL", 0),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.PaymentSecret == "" {
		log.Fatal("CRITICAL: PAYMENT_SECRET is required to verify provider callbacks")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.SimulationStepOdds < 0 || c.SimulationStepOdds > 1 {
		log.Fatal("CRITICAL: SIMULATION_STEP_ODDS must be within [0,1]")
	}
}
