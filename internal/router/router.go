package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/trimspace/backend/internal/connectivity"
	"github.com/trimspace/backend/internal/feed"
	"github.com/trimspace/backend/internal/handlers"
	"github.com/trimspace/backend/internal/likes"
	"github.com/trimspace/backend/internal/middleware"
	"github.com/trimspace/backend/internal/models"
	"github.com/trimspace/backend/internal/repositories"
	"github.com/trimspace/backend/internal/retry"
	"github.com/trimspace/backend/pkg/config"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes wires the repositories, the reconciliation engine, and all
// application routes.
func SetupRoutes(e *echo.Echo, db *config.DB, firebaseAuthClient *auth.Client, cfg *config.Config, logger *zap.Logger) error {
	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	var ownerRepo repositories.OwnerRepository = repositories.NewMongoOwnerRepository(mongoDB)
	if db.Redis != nil {
		ownerRepo = repositories.NewCachedOwnerRepository(ownerRepo, db.Redis, cfg.OwnerScanCacheTTL, logger)
	}
	ledgerRepo := repositories.NewMongoLedgerRepository(mongoDB)

	// --- Reconciliation engine ---
	monitor := connectivity.NewMonitor(cfg.ConnectivityAutoClear, logger)
	executor := retry.NewExecutor(cfg.RetryMaxAttempts, cfg.RetryBaseDelay, cfg.RetryAttemptTimeout, monitor, logger)
	ledger := likes.NewLedger(ledgerRepo, logger)
	coordinator := likes.NewCoordinator(ledger, executor, nil, logger)
	aggregator := feed.NewAggregator(ownerRepo, ledgerRepo, monitor, logger)

	// --- Routes ---
	// Reads allow anonymous viewers; mutations require a Firebase identity.
	api := e.Group("/api/v1")
	api.Use(middleware.OptionalFirebaseAuthMiddleware(firebaseAuthClient))

	authed := e.Group("/api/v1")
	authed.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))

	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authed)

	feedHandler := handlers.NewFeedHandler(aggregator, userRepo, monitor)
	feedHandler.RegisterFeedRoutes(api)

	likeHandler := handlers.NewLikeHandler(coordinator, ledger, ownerRepo, userRepo)
	likeHandler.RegisterLikeRoutes(authed)

	ownerHandler := handlers.NewOwnerHandler(ownerRepo)
	ownerHandler.RegisterOwnerRoutes(api)
	ownerHandler.RegisterOwnerMutationRoutes(authed)

	connectivityHandler := handlers.NewConnectivityHandler(monitor)
	connectivityHandler.RegisterConnectivityRoutes(api)

	logger.Info("all routes configured")
	return nil
}
