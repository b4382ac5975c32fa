package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	RedisAddr string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// checkout tunables; defaults match the storefront behavior
	TaxRate            float64
	DefaultDeliveryFee string
	CartTTL            time.Duration

	AuthBootstrapTimeout time.Duration
	CartLoadTimeout      time.Duration
	ProfileWaitTimeout   time.Duration
	CheckoutReadyTimeout time.Duration
	SubmitTimeout        time.Duration
	SubmitBackoff        time.Duration
	SubmitMaxAttempts    int
	ProcessingSafety     time.Duration

	// simulated payment provider delay before authorize/fail resolves
	PaymentDelay time.Duration

	// demo mode: tracking clients watch simulated status progression
	// instead of real transitions
	SimulateStatus   bool
	SimulateInterval time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:  getEnv("DB_SOURCE", "savory.db"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    24 * time.Hour,

		TaxRate:            0.08,
		DefaultDeliveryFee: getEnv("DEFAULT_DELIVERY_FEE", "3.99"),
		CartTTL:            getDuration("CART_TTL", 24*time.Hour),

		AuthBootstrapTimeout: getDuration("AUTH_BOOTSTRAP_TIMEOUT", 5*time.Second),
		CartLoadTimeout:      getDuration("CART_LOAD_TIMEOUT", 2*time.Second),
		ProfileWaitTimeout:   getDuration("PROFILE_WAIT_TIMEOUT", 3*time.Second),
		CheckoutReadyTimeout: getDuration("CHECKOUT_READY_TIMEOUT", 10*time.Second),
		SubmitTimeout:        getDuration("SUBMIT_TIMEOUT", 10*time.Second),
		SubmitBackoff:        getDuration("SUBMIT_BACKOFF", 2*time.Second),
		SubmitMaxAttempts:    getInt("SUBMIT_MAX_ATTEMPTS", 3),
		ProcessingSafety:     getDuration("PROCESSING_SAFETY_TIMEOUT", 15*time.Second),

		PaymentDelay: getDuration("PAYMENT_DELAY", 2*time.Second),

		SimulateStatus:   getBool("SIMULATE_STATUS", false),
		SimulateInterval: getDuration("SIMULATE_INTERVAL", 8*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
