package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the server needs at boot. Secrets and addresses
// come from the environment (.env in development); behavioral tunables come
// from app.yaml via viper, with defaults matching the mobile client's
// expectations.
type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string

	RetryMaxAttempts    int
	RetryBaseDelay      time.Duration
	RetryAttemptTimeout time.Duration

	ConnectivityAutoClear time.Duration
	OwnerScanCacheTTL     time.Duration
}

// Load reads the environment and the optional app.yaml tunables
func Load() *Config {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("retry.maxAttempts", 3)
	viper.SetDefault("retry.baseDelay", "1s")
	viper.SetDefault("retry.attemptTimeout", "10s")
	viper.SetDefault("connectivity.autoClear", "5s")
	viper.SetDefault("cache.ownerScanTTL", "10s")

	// Missing app.yaml is fine, the defaults cover it.
	_ = viper.ReadInConfig()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "trimspace"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),

		RetryMaxAttempts:    viper.GetInt("retry.maxAttempts"),
		RetryBaseDelay:      viper.GetDuration("retry.baseDelay"),
		RetryAttemptTimeout: viper.GetDuration("retry.attemptTimeout"),

		ConnectivityAutoClear: viper.GetDuration("connectivity.autoClear"),
		OwnerScanCacheTTL:     viper.GetDuration("cache.ownerScanTTL"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
