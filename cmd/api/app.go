package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"realestate-catalog/internal/handlers"
	"realestate-catalog/internal/locks"
	"realestate-catalog/internal/middleware"
	"realestate-catalog/internal/repositories"
	"realestate-catalog/internal/services"
	"realestate-catalog/internal/transformers"
	"realestate-catalog/internal/validators"
	"realestate-catalog/pkg/cache"
	"realestate-catalog/pkg/config"
	"realestate-catalog/pkg/database"
	"realestate-catalog/pkg/events"
	"realestate-catalog/pkg/imagehost"
	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// App represents the application structure
type App struct {
	Config *config.Config
	Router *gin.Engine
	Server *http.Server

	DB        *database.Client
	Cache     *cache.Client
	Publisher events.Publisher
	ImageHost imagehost.Host
	Locker    locks.Locker

	PropertyHandler *handlers.PropertyHandler
	OwnerHandler    *handlers.OwnerHandler
	ImageHandler    *handlers.ImageHandler
	PlaceHandler    *handlers.PlaceHandler
	TraceHandler    *handlers.TraceHandler
	RateLimiter     *middleware.RateLimiter

	stopBackground context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeMetrics()
	app.initializeDatabase()
	app.initializeCache()
	app.initializeLocks()
	app.initializeImageHost()
	app.initializeEvents()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the database connection and indexes
func (a *App) initializeDatabase() {
	ctx := context.Background()
	client, err := database.Connect(ctx, database.Options{
		URI:         a.Config.Database.URI,
		DBName:      a.Config.Database.DBName,
		MaxPoolSize: a.Config.Database.MaxPoolSize,
		Timeout:     a.Config.DatabaseTimeout(),
	})
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	a.DB = client

	if err := database.EnsureIndexes(ctx, client.Database()); err != nil {
		logger.GlobalLogger.Errorf("Failed to ensure indexes: %v", err)
		os.Exit(1)
	}
}

// initialize the Redis cache when enabled
func (a *App) initializeCache() {
	if !a.Config.Redis.Enabled {
		logger.GlobalLogger.Println("Redis disabled, serving every read from MongoDB")
		return
	}
	rc := a.Config.Redis
	client, err := cache.New(context.Background(), cache.Options{
		Host:        rc.Host,
		Port:        rc.Port,
		Password:    rc.Password,
		DB:          rc.DB,
		TLSEnabled:  rc.TLSEnabled,
		TLSCertFile: rc.TLSCertFile,
	})
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	a.Cache = client
}

// main-image writes are serialized across instances when Redis is shared
func (a *App) initializeLocks() {
	if a.Cache != nil {
		a.Locker = locks.NewRedis(a.Cache, 10*time.Second)
		return
	}
	a.Locker = locks.NewKeyed()
}

func (a *App) initializeImageHost() {
	cc := a.Config.Cloudinary
	if cc.CloudName == "" {
		logger.GlobalLogger.Println("Cloudinary not configured, image uploads are disabled")
		return
	}
	host, err := imagehost.NewCloudinary(cc.CloudName, cc.APIKey, cc.APISecret, cc.Folder)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Cloudinary: %v", err)
		os.Exit(1)
	}
	a.ImageHost = host
}

// domain events are optional; without a broker they are dropped
func (a *App) initializeEvents() {
	a.Publisher = events.NewNopPublisher()
	if a.Config.RabbitMQ.URL == "" {
		return
	}
	publisher, err := events.NewAMQPPublisher(a.Config.RabbitMQ.URL, a.Config.RabbitMQ.Exchange)
	if err != nil {
		logger.GlobalLogger.Errorf("Event publishing disabled: %v", err)
		return
	}
	a.Publisher = publisher
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	rl := a.Config.RateLimit
	a.RateLimiter = middleware.NewRateLimiter(rate.Limit(float64(rl.RequestsPerMinute)/60.0), rl.Burst)

	ctx, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel
	go a.RateLimiter.Cleanup(ctx, time.Hour)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	db := a.DB.Database()

	// repositories
	propertyRepo := repositories.NewPropertyRepository(db)
	ownerRepo := repositories.NewOwnerRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	placeRepo := repositories.NewPlaceRepository(db)
	traceRepo := repositories.NewTraceRepository(db)
	propertyCache := repositories.NewNopPropertyCache()
	if a.Cache != nil {
		propertyCache = repositories.NewPropertyCache(a.Cache)
	}

	// transformers
	propTrans := transformers.NewPropertyTransformer()

	// validators
	propertyValidator := validators.NewPropertyValidator(a.Config.Search.MaxPageSize)

	// services
	hydrator := services.NewHydrator(ownerRepo, imageRepo, placeRepo)
	searchService := services.NewPropertySearchService(propertyRepo, ownerRepo, placeRepo, hydrator, propertyCache, propertyValidator,
		services.SearchSettings{DefaultPageSize: a.Config.Search.DefaultPageSize, CacheTTL: a.Config.SearchCacheTTL()})
	placeService := services.NewPlaceService(placeRepo, propertyRepo, propertyCache, validators.NewPlaceValidator(), a.Publisher)
	imageService := services.NewImageService(imageRepo, propertyRepo, a.ImageHost, a.Locker, propertyCache,
		validators.NewImageValidator(), a.Publisher)
	propertyService := services.NewPropertyService(propertyRepo, ownerRepo, traceRepo, placeService, imageService, propertyCache,
		propertyValidator, a.Publisher)
	ownerService := services.NewOwnerService(ownerRepo, propertyRepo, propertyCache, validators.NewOwnerValidator(), a.Publisher)
	traceService := services.NewTraceService(traceRepo, propertyRepo, validators.NewTraceValidator(), a.Publisher)

	// handlers
	a.PropertyHandler = handlers.NewPropertyHandler(searchService, propertyService, propTrans)
	a.OwnerHandler = handlers.NewOwnerHandler(ownerService)
	a.ImageHandler = handlers.NewImageHandler(imageService)
	a.PlaceHandler = handlers.NewPlaceHandler(placeService)
	a.TraceHandler = handlers.NewTraceHandler(traceService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.New()
	// handlers pass the gin context to services; let it carry the request deadline
	a.Router.ContextWithFallback = true
	a.Router.MaxMultipartMemory = imagehost.MaxUploadBytes
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	if err := a.Publisher.Close(); err != nil {
		logger.GlobalLogger.Errorf("Failed to close event publisher: %v", err)
	}
	if a.Cache != nil {
		a.Cache.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.DB.Close(ctx); err != nil {
		logger.GlobalLogger.Errorf("Failed to close MongoDB: %v", err)
	}
}
