package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	appControllers "github.com/yigit/learnsphere/internal/app/controllers"
	appMigrations "github.com/yigit/learnsphere/internal/app/migrations"
	appRepos "github.com/yigit/learnsphere/internal/app/repositories"
	appRoutes "github.com/yigit/learnsphere/internal/app/routes"
	appServices "github.com/yigit/learnsphere/internal/app/services"
	"github.com/yigit/learnsphere/internal/config"
	"github.com/yigit/learnsphere/internal/db"
	appMiddleware "github.com/yigit/learnsphere/internal/middleware"
	pkgAuth "github.com/yigit/learnsphere/internal/pkg/auth"
	"github.com/yigit/learnsphere/internal/pkg/cache"
	"github.com/yigit/learnsphere/internal/pkg/filestorage"
	"github.com/yigit/learnsphere/internal/pkg/helpers"
	"github.com/yigit/learnsphere/internal/pkg/logger"
	"github.com/yigit/learnsphere/internal/pkg/monitoring"
	"github.com/yigit/learnsphere/internal/pkg/security"
	"github.com/yigit/learnsphere/internal/pkg/tracing"
	"github.com/yigit/learnsphere/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB             *db.PostgresDB
	Repos          *appRepos.Repositories
	Cache          *cache.Cache // nil when no cache URL is configured
	Storage        filestorage.Storage
	TracerProvider *sdktrace.TracerProvider
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Server.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		pg.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(pg.Pool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		pg.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{
		Email:    cfg.Seed.AdminEmail,
		Name:     cfg.Seed.AdminName,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(pg), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return pg, nil
}

// BuildDependencies initializes optional infrastructure, repositories, services and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, pg *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{DB: pg, Logger: lgr}
	deps.Repos = appRepos.NewRepositories(pg)

	var ratingCache appServices.FloatCache
	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			// Ratings fall back to the database.
			lgr.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		} else {
			deps.Cache = c
			ratingCache = c
			lgr.Info().Msg("Rating cache connected")
		}
	}

	storage, err := filestorage.New(ctx, filestorage.Options{
		Driver:    strings.ToLower(cfg.Storage.Driver),
		LocalPath: cfg.Storage.LocalPath,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize certificate storage: %w", err)
	}
	deps.Storage = storage

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			lgr.Warn().Err(err).Msg("Tracing disabled, exporter could not be created")
		} else {
			deps.TracerProvider = tp
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	r := deps.Repos
	authService := appServices.NewAuthService(r.UserRepository, deps.JWTService, lgr)
	catalogService := appServices.NewCatalogService(r.CourseRepository, r.UserRepository, lgr)
	enrollmentService := appServices.NewEnrollmentService(r.EnrollmentRepository, r.CourseRepository, r.SubmissionRepository, lgr)
	quizService := appServices.NewQuizService(r.SubmissionRepository, r.EnrollmentRepository, r.CourseRepository, lgr)
	ratingService := appServices.NewRatingService(r.RatingRepository, r.CourseRepository, ratingCache,
		helpers.ParseDuration(cfg.Cache.RatingTTL, appServices.DefaultRatingTTL), lgr)
	forumService := appServices.NewForumService(r.ForumRepository, r.CourseRepository, lgr)
	certificateService := appServices.NewCertificateService(r.EnrollmentRepository, r.CourseRepository, r.UserRepository, deps.Storage, lgr)
	reportService := appServices.NewReportService(r.EnrollmentRepository, r.CourseRepository, lgr)

	var cachePinger appControllers.Pinger
	if deps.Cache != nil {
		cachePinger = appControllers.PingerFunc(deps.Cache.HealthCheck)
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(authService, lgr),
		Course:      appControllers.NewCourseController(catalogService, lgr),
		Enrollment:  appControllers.NewEnrollmentController(enrollmentService, quizService, lgr),
		Community:   appControllers.NewCommunityController(ratingService, forumService, lgr),
		Instructor:  appControllers.NewInstructorController(catalogService, reportService, lgr),
		Certificate: appControllers.NewCertificateController(certificateService, lgr),
		Health:      appControllers.NewHealthController(appControllers.PingerFunc(pg.Pool.Ping), cachePinger, lgr),
	}

	return deps, nil
}

// Close releases the cache client. The database pool and tracer are owned by the server.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Cache close error")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes. ctx bounds background
// work such as rate limiter cleanup.
func SetupRouter(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	monitoring.Init()

	router := gin.New()
	router.Use(appMiddleware.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	if deps.TracerProvider != nil {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())
	router.Use(security.Secure())
	router.Use(security.CORS(cfg.Security.AllowedOrigins))
	router.Use(security.RateLimiter(ctx, cfg.Security.RateLimitRequests,
		helpers.ParseDuration(cfg.Security.RateLimitWindow, time.Minute)))

	router.GET("/metrics", monitoring.PrometheusHandler())
	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
