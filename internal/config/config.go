package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"paybridge/internal/provider"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	API       APIConfig
	Provider  provider.Settings
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type APIConfig struct {
	Key string
}

type ReconcileConfig struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ADYEN_TEST_MODE", true)
	viper.SetDefault("RECONCILE_ENABLED", false)
	viper.SetDefault("RECONCILE_SCHEDULE", "*/15 * * * *")

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
		Provider: provider.Settings{
			ContinueURL:           viper.GetString("CONTINUE_URL"),
			APIKey:                viper.GetString("ADYEN_API_KEY"),
			HMACKey:               viper.GetString("ADYEN_HMAC_KEY"),
			MerchantAccount:       viper.GetString("ADYEN_MERCHANT_ACCOUNT"),
			TestMode:              viper.GetBool("ADYEN_TEST_MODE"),
			AllowedPaymentMethods: viper.GetString("ADYEN_ALLOWED_PAYMENT_METHODS"),
		},
		Reconcile: ReconcileConfig{
			Enabled:  viper.GetBool("RECONCILE_ENABLED"),
			Schedule: viper.GetString("RECONCILE_SCHEDULE"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Provider.HMACKey == "" {
		log.Println("WARNING: ADYEN_HMAC_KEY is not set, webhook notifications will be rejected")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
