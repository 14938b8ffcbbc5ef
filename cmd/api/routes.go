package main

import (
	"context"
	"net/http"
	"time"

	"realestate-catalog/docs"
	"realestate-catalog/internal/middleware"
	"realestate-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	setupDocsRoutes(a.Router)
	a.setupOperationalRoutes()
	a.setupAPIRoutes()
}

// setupDocsRoutes serves Swagger UI and the raw swagger.json
func setupDocsRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
	})
}

// setupOperationalRoutes exposes health and Prometheus metrics
func (a *App) setupOperationalRoutes() {
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := a.DB.Ping(ctx); err != nil {
			logger.GlobalLogger.Errorf("MongoDB ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "MongoDB unavailable"})
			return
		}

		redis := "disabled"
		if a.Cache != nil {
			if err := a.Cache.Ping(ctx); err != nil {
				logger.GlobalLogger.Errorf("Redis ping failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
				return
			}
			redis = "ok"
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "mongodb": "ok", "redis": redis})
	})
}

// setupAPIRoutes configures API routes. Reads are public; writes need an
// editor token when a JWT secret is configured.
func (a *App) setupAPIRoutes() {
	secret := a.Config.JWT.Secret
	if secret == "" {
		logger.GlobalLogger.Println("JWT secret not set, write routes are unauthenticated")
	}
	write := middleware.AuthMiddleware(secret, true)

	api := a.Router.Group("/api")

	properties := api.Group("/properties")
	{
		properties.GET("", a.PropertyHandler.SearchProperties)
		properties.GET("/owner/:ownerId", a.PropertyHandler.GetPropertiesByOwner)
		properties.GET("/price-range", a.PropertyHandler.GetPropertiesByPriceRange)
		properties.GET("/location", a.PropertyHandler.GetPropertiesByLocation)
		properties.GET("/codigo/:codigo/exists", a.PropertyHandler.CodigoInternalExists)
		properties.GET("/:id", a.PropertyHandler.GetPropertyByID)
		properties.POST("", write, a.PropertyHandler.CreateProperty)
		properties.PUT("/:id", write, a.PropertyHandler.UpdateProperty)
		properties.DELETE("/:id", write, a.PropertyHandler.DeleteProperty)
	}

	owners := api.Group("/owners")
	{
		owners.GET("", a.OwnerHandler.GetOwners)
		owners.GET("/search", a.OwnerHandler.SearchOwners)
		owners.GET("/:id", a.OwnerHandler.GetOwnerByID)
		owners.POST("", write, a.OwnerHandler.CreateOwner)
		owners.PUT("/:id", write, a.OwnerHandler.UpdateOwner)
		owners.DELETE("/:id", write, a.OwnerHandler.DeleteOwner)
	}

	images := api.Group("/images/property/:propertyId")
	{
		images.GET("", a.ImageHandler.GetImages)
		images.GET("/main", a.ImageHandler.GetMainImage)
		images.GET("/image/:imageId/responsive", a.ImageHandler.GetResponsiveURLs)
		images.POST("/upload", write, a.ImageHandler.UploadImage)
		images.PUT("/main/:imageId", write, a.ImageHandler.SetMainImage)
		images.PUT("/image/:imageId/disable", write, a.ImageHandler.DisableImage)
		images.DELETE("/image/:imageId", write, a.ImageHandler.DeleteImage)
	}

	places := api.Group("/places")
	{
		places.GET("/property/:propertyId", a.PlaceHandler.GetPlaces)
		places.PUT("/property/:propertyId", write, a.PlaceHandler.UpsertPlace)
		places.DELETE("/:id", write, a.PlaceHandler.DeletePlace)
	}

	traces := api.Group("/traces")
	{
		traces.GET("", a.TraceHandler.GetTraces)
		traces.GET("/property/:propertyId", a.TraceHandler.GetTracesByProperty)
		traces.GET("/:id", a.TraceHandler.GetTraceByID)
		traces.POST("", write, a.TraceHandler.CreateTrace)
		traces.PUT("/:id", write, a.TraceHandler.UpdateTrace)
		traces.DELETE("/:id", write, a.TraceHandler.DeleteTrace)
		traces.DELETE("/property/:propertyId", write, a.TraceHandler.DeleteTracesByProperty)
	}
}
