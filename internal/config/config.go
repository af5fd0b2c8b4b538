package config

import "os"

// Config is the process configuration, read from the environment exactly
// once at startup and passed explicitly into services and connectors.
// Per-platform secrets are validated lazily by the connectors so that a
// missing Shopify secret does not prevent WooCommerce flows from running.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string

	// Identity collaborator: verifies a bearer token and resolves it to a
	// user id.
	AuthBaseURL string
	AuthAPIKey  string

	ShopifyClientID     string
	ShopifyClientSecret string
	ShopifyRedirectURI  string

	WooAppName string

	// AppURL is this service's public base URL, used to derive OAuth
	// callback URLs. FrontendURL is the dashboard base URL for post-auth
	// redirects.
	AppURL      string
	FrontendURL string

	// CronSecret authenticates the scheduled channel. When empty the
	// scheduled channel is disabled.
	CronSecret string
}

// Load builds the configuration from the environment.
func Load() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		MongoURI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "storesync"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		AuthBaseURL:         os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:          os.Getenv("AUTH_API_KEY"),
		ShopifyClientID:     os.Getenv("SHOPIFY_CLIENT_ID"),
		ShopifyClientSecret: os.Getenv("SHOPIFY_CLIENT_SECRET"),
		ShopifyRedirectURI:  os.Getenv("SHOPIFY_REDIRECT_URI"),
		WooAppName:          getEnv("WOO_APP_NAME", "StoreSync"),
		AppURL:              getEnv("APP_URL", "http://localhost:8080"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		CronSecret:          os.Getenv("CRON_SECRET"),
	}

	if cfg.ShopifyRedirectURI == "" {
		cfg.ShopifyRedirectURI = cfg.AppURL + "/auth/shopify/callback"
	}

	return cfg
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
