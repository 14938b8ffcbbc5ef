package main

import (
	"context"
	"os"
	"time"

	"realestate-catalog/internal/locks"
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

	"github.com/fatih/color"
)

var configPath string

var (
	success = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
)

// env is the slice of the catalog the maintenance commands operate on.
type env struct {
	cfg   *config.Config
	db    *database.Client
	cache *cache.Client

	images      *services.ImageService
	maintenance *services.MaintenanceService
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(os.Stderr, cfg.Logging.Level)
	return cfg, nil
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(ctx, database.Options{
		URI:         cfg.Database.URI,
		DBName:      cfg.Database.DBName,
		MaxPoolSize: 4,
		Timeout:     cfg.DatabaseTimeout(),
	})
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, db: db}

	propertyCache := repositories.NewNopPropertyCache()
	var locker locks.Locker = locks.NewKeyed()
	if cfg.Redis.Enabled {
		rc := cfg.Redis
		client, err := cache.New(ctx, cache.Options{
			Host:        rc.Host,
			Port:        rc.Port,
			Password:    rc.Password,
			DB:          rc.DB,
			TLSEnabled:  rc.TLSEnabled,
			TLSCertFile: rc.TLSCertFile,
		})
		if err != nil {
			warning.Fprintf(os.Stderr, "redis unavailable, cached entries will not be invalidated: %v\n", err)
		} else {
			e.cache = client
			propertyCache = repositories.NewPropertyCache(client)
			locker = locks.NewRedis(client, 10*time.Second)
		}
	}

	var host imagehost.Host
	if cc := cfg.Cloudinary; cc.CloudName != "" {
		if host, err = imagehost.NewCloudinary(cc.CloudName, cc.APIKey, cc.APISecret, cc.Folder); err != nil {
			e.close()
			return nil, err
		}
	}

	mdb := db.Database()
	propertyRepo := repositories.NewPropertyRepository(mdb)
	imageRepo := repositories.NewImageRepository(mdb)
	placeRepo := repositories.NewPlaceRepository(mdb)
	traceRepo := repositories.NewTraceRepository(mdb)
	publisher := events.NewNopPublisher()

	placeService := services.NewPlaceService(placeRepo, propertyRepo, propertyCache, validators.NewPlaceValidator(), publisher)
	e.images = services.NewImageService(imageRepo, propertyRepo, host, locker, propertyCache, validators.NewImageValidator(), publisher)
	e.maintenance = services.NewMaintenanceService(propertyRepo, imageRepo, placeRepo, traceRepo, placeService, propertyCache,
		transformers.NewAddressTransformer())
	return e, nil
}

func (e *env) close() {
	if e.cache != nil {
		e.cache.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = e.db.Close(ctx)
}
