// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"safaipak-api-server/config"
	"safaipak-api-server/internal/api/handlers"
	"safaipak-api-server/internal/api/middleware"
	"safaipak-api-server/internal/auth"
	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/service"
	"safaipak-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the long-lived components the router is built from.
// Auth and Uploader are optional: a nil Auth leaves every route public and a
// nil Uploader makes document uploads answer 503.
type Dependencies struct {
	Config   config.Config
	Store    database.Store
	Log      *zap.Logger
	Hub      *socket.Hub
	Auth     *auth.Manager
	Uploader handlers.DocumentUploader
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// SetupRouter wires services and handlers onto a gin engine.
func SetupRouter(deps Dependencies) *gin.Engine {
	handlers.RegisterValidators()

	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(corsConfig(deps.Config.CORS.AllowOrigins)))
	router.Use(middleware.RateLimit(deps.Config.RateLimit.PerMinute, deps.Config.RateLimit.Burst, log))

	bookingService := service.NewBookingService(deps.Store, deps.Store, log)
	if deps.Hub != nil {
		bookingService.WithNotifier(deps.Hub)
	}
	providerService := service.NewProviderService(deps.Store, log)
	analyticsService := service.NewAnalyticsService(deps.Store, deps.Store)
	reviewService := service.NewReviewService(deps.Store, log)

	infoHandler := &handlers.InfoHandler{Store: deps.Store.Name()}
	bookingHandler := &handlers.BookingHandler{Bookings: bookingService, Log: log}
	providerHandler := &handlers.ProviderHandler{Providers: providerService, Uploader: deps.Uploader, Log: log}
	analyticsHandler := &handlers.AnalyticsHandler{Analytics: analyticsService, Log: log}
	reviewHandler := &handlers.ReviewHandler{Reviews: reviewService, Log: log}

	// Admin-only routes are open when authentication is disabled.
	var adminOnly []gin.HandlerFunc
	if deps.Auth != nil {
		adminOnly = []gin.HandlerFunc{
			middleware.Authenticate(deps.Auth),
			middleware.Authorize(auth.RoleAdmin),
		}
	}

	router.GET("/", infoHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/services", infoHandler.Services)

		if deps.Hub != nil {
			wsHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Log: log}
			api.GET("/ws", wsHandler.ServeWs)
		}

		if deps.Auth != nil {
			authHandler := &handlers.AuthHandler{Auth: deps.Auth, Log: log}
			api.POST("/auth/login", authHandler.Login)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.PUT("/:id", bookingHandler.UpdateBooking)
			bookings.PATCH("/:id/confirm", bookingHandler.ConfirmBooking)
		}

		providers := api.Group("/providers")
		{
			providers.POST("", providerHandler.RegisterProvider)
			providers.GET("", providerHandler.ListProviders)
			providers.GET("/:id", providerHandler.GetProvider)
			providers.PUT("/:id", append(adminOnly, providerHandler.UpdateProvider)...)
			providers.POST("/:id/documents", append(adminOnly, providerHandler.UploadDocument)...)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
			analytics.GET("/demand", analyticsHandler.Demand)
			analytics.GET("/provider/:providerId", analyticsHandler.Provider)
			analytics.GET("/location", analyticsHandler.Location)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.GET("", reviewHandler.ListReviews)
		}
	}

	return router
}
