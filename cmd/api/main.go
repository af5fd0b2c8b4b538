package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"storesync-core/internal/application"
	"storesync-core/internal/config"
	apiinfra "storesync-core/internal/infrastructure/api"
	"storesync-core/internal/infrastructure/identity"
	"storesync-core/internal/infrastructure/oauthstate"
	"storesync-core/internal/infrastructure/repository"
	shopifyinfra "storesync-core/internal/infrastructure/shopify"
	"storesync-core/internal/infrastructure/statestore"
	woocommerceinfra "storesync-core/internal/infrastructure/woocommerce"
	"storesync-core/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg := config.Load()

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Redis holds the one-time OAuth state nonces
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	// Initialize repositories
	integrationRepo := repository.NewMongoIntegrationRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	// Initialize platform connectors (one per platform tag)
	shopifyConnector := shopifyinfra.NewConnector(
		cfg.ShopifyClientID,
		cfg.ShopifyClientSecret,
		cfg.ShopifyRedirectURI,
		logger,
	)
	wooConnector := woocommerceinfra.NewConnector(
		cfg.WooAppName,
		cfg.AppURL+"/auth/woocommerce/callback",
		cfg.FrontendURL+"/dashboard?success=true",
		logger,
	)
	connectors := []ports.PlatformConnector{shopifyConnector, wooConnector}

	// Initialize application services
	verifier := identity.NewHTTPVerifier(cfg.AuthBaseURL, cfg.AuthAPIKey, logger)
	stateCodec := oauthstate.NewCodec(cfg.ShopifyClientSecret)
	nonceStore := statestore.NewRedisNonceStore(redisClient)

	syncService := application.NewSyncService(integrationRepo, orderRepo, connectors, logger)
	connectService := application.NewConnectService(integrationRepo, connectors, stateCodec, nonceStore, logger)
	authService := application.NewAuthService(verifier, cfg.CronSecret, logger)

	handler := apiinfra.NewHandler(
		syncService,
		connectService,
		authService,
		integrationRepo,
		cfg.FrontendURL,
		logger,
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth/shopify/install", handler.ShopifyInstall)
	r.Get("/auth/shopify/callback", handler.ShopifyCallback)
	r.Get("/auth/woocommerce/initiate", handler.WooInitiate)
	r.Post("/auth/woocommerce/callback", handler.WooCallback)

	// Sync entry points
	r.Post("/sync", handler.Sync)
	r.Post("/sync/all", handler.SyncAll)

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
