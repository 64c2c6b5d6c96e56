package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/girlscollective/collective/internal/app/auth"
	appControllers "github.com/girlscollective/collective/internal/app/controllers"
	appMigrations "github.com/girlscollective/collective/internal/app/migrations"
	appRepos "github.com/girlscollective/collective/internal/app/repositories"
	appRoutes "github.com/girlscollective/collective/internal/app/routes"
	appServices "github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/config"
	"github.com/girlscollective/collective/internal/db"
	appMiddleware "github.com/girlscollective/collective/internal/middleware"
	pkgAuth "github.com/girlscollective/collective/internal/pkg/auth"
	"github.com/girlscollective/collective/internal/pkg/cache"
	"github.com/girlscollective/collective/internal/pkg/filestorage"
	"github.com/girlscollective/collective/internal/pkg/geocode"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/girlscollective/collective/internal/pkg/logger"
	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/girlscollective/collective/internal/pkg/ratelimit"
	"github.com/girlscollective/collective/internal/pkg/websocket"
	"github.com/girlscollective/collective/internal/pkg/worker"
	"github.com/girlscollective/collective/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Admins         *appAuth.AdminResolver
	Hub            *websocket.Hub
	Limiter        ratelimit.Limiter
	FileStorage    filestorage.FileStorage
	// Processor is nil when Redis is not configured
	Processor worker.TaskProcessor
	Logger    zerolog.Logger

	closers []func() error
}

// Close releases the Redis-backed clients
func (d *Dependencies) Close() {
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			d.Logger.Warn().Err(err).Msg("Error closing dependency")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "collective-api",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
		// Startup continues; the directory is simply emptier
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

func setupFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	if strings.ToLower(cfg.Storage.Driver) == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
	}

	baseURL := cfg.Storage.PublicBaseURL
	if baseURL == "" {
		// Must match the static file serving URL path
		baseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	return filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = setupFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	forwarder := notify.NewForwarder(nil, cfg.Notify.FunctionURL, cfg.Notify.Secret, logger.Component("notify"))
	window := helpers.ParseDuration(cfg.RateLimit.Window, time.Minute)

	var (
		distributor  worker.TaskDistributor
		geocodeCache cache.Cache
	)
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cancel()
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, redisClient.Close)

		redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		redisDistributor := worker.NewRedisTaskDistributor(redisOpt, logger.Component("worker"))
		deps.closers = append(deps.closers, redisDistributor.Close)
		distributor = redisDistributor
		deps.Processor = worker.NewRedisTaskProcessor(redisOpt, forwarder, logger.Component("worker"))

		geocodeCache = cache.NewRedisCache(redisClient, "geocode")
		deps.Limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, window)
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis configured: queue, cache and rate limit enabled")
	} else {
		distributor = worker.NewInlineDistributor(forwarder, logger.Component("worker"))
		deps.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, window)
		lgr.Warn().Msg("Redis not configured: approval notices are sent inline and rate limits are per process")
	}

	deps.Hub = websocket.NewHub(logger.Component("ws"))

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:       deps.Repos,
		Distributor: distributor,
		Publisher:   deps.Hub,
		Storage:     deps.FileStorage,
		AdminURL:    cfg.Notify.AdminURL,
	})

	deps.JWTService = NewJWTService(cfg)
	deps.Admins = appAuth.NewAdminResolver(deps.Repos.ProfileRepository, cfg.AdminEmails(), logger.Component("authz"))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Admins)

	geocoder := geocode.NewClient(nil, cfg.Geocode.Endpoint, cfg.Geocode.APIKey, geocodeCache,
		helpers.ParseDuration(cfg.Geocode.CacheTTL, 7*24*time.Hour), logger.Component("geocode"))

	s := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Directory: appControllers.NewDirectoryController(s.Directory, s.Group),
		Group:     appControllers.NewGroupController(s.Group),
		Feed:      appControllers.NewFeedController(s.Feed, s.Group, deps.Hub, cfg.CORSOrigins()),
		Poll:      appControllers.NewPollController(s.Poll),
		Event:     appControllers.NewEventController(s.Event, s.Calendar),
		Profile:   appControllers.NewProfileController(s.Profile, s.Upload),
		DM:        appControllers.NewDMController(s.DM),
		Admin:     appControllers.NewAdminController(s.Admin),
		Contact:   appControllers.NewContactController(s.Contact),
		Relay: appControllers.NewRelayController(geocoder, forwarder, s.Contact, cfg.ComingSoon.PreviewKeyHash,
			isProduction(cfg), logger.Component("relay")),
		Site: appControllers.NewSiteController(s.Site, cfg.Server.BaseURL),
	}

	return deps, nil
}

// NewJWTService builds the token validator from the jwt config section.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
}

func isProduction(cfg *config.Config) bool {
	return strings.ToLower(cfg.Server.Mode) == "production"
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if isProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validators")
	}

	router := gin.New()
	router.Use(
		gin.Logger(),
		appMiddleware.Recovery(),
		appMiddleware.CORS(cfg.CORSOrigins()),
		appMiddleware.ComingSoon(router, appMiddleware.ComingSoonConfig{
			Enabled:       cfg.ComingSoon.Enabled,
			AllowPrefixes: cfg.ComingSoonPrefixes(),
			LandingPath:   cfg.ComingSoon.LandingPath,
		}),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Limiter, cfg.ComingSoon.LandingPath)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
