package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hooplab/courtside/internal/config"
	"github.com/hooplab/courtside/internal/handler"
	"github.com/hooplab/courtside/internal/middleware"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/hooplab/courtside/internal/service"
	"github.com/hooplab/courtside/pkg/database"
	"github.com/hooplab/courtside/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, activity queue and rate limiting run degraded")
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	mediaStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	courtRepo := repository.NewCourtRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	followingRepo := repository.NewFollowingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTxManager(db)

	searchService := service.NewMeiliSearchService(meiliClient)
	activityService := service.NewActivityService(redisClient, activityRepo, userRepo)
	aggregateService := service.NewAggregateService(followingRepo, reviewRepo, bookingRepo)

	courtService := service.NewCourtService(courtRepo, followingRepo, bookingRepo,
		aggregateService, activityService, searchService, redisClient, cfg.RateLimitCourt)
	mediaService := service.NewMediaService(courtRepo, mediaRepo, txManager, activityService, mediaStorage)
	reviewService := service.NewReviewService(courtRepo, reviewRepo, bookingRepo, txManager,
		aggregateService, activityService, courtService, redisClient, cfg.RateLimitReview)

	courtHandler := handler.NewCourtHandler(courtService, activityService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api")

	// Read endpoints: anonymous callers allowed, derived fields degrade.
	reads := api.Group("/courts")
	reads.Use(authMiddleware.OptionalAuth())
	{
		reads.GET("", courtHandler.GetAllCourts)
		reads.GET("/:id", courtHandler.GetCourt)
		reads.GET("/:id/photos", mediaHandler.GetCourtPhotos)
		reads.GET("/:id/videos", mediaHandler.GetCourtVideos)
		reads.GET("/:id/reviews", reviewHandler.GetReviews)
		reads.GET("/:id/bookings", courtHandler.GetCourtBookings)
		reads.GET("/:id/activities", courtHandler.GetCourtActivities)
		reads.POST("/search", courtHandler.FindCourts)
	}

	users := api.Group("/users")
	users.Use(authMiddleware.OptionalAuth())
	{
		users.GET("/:id/activities", courtHandler.GetUserActivities)
	}

	writes := api.Group("/courts")
	writes.Use(authMiddleware.RequireAuth())
	{
		writes.POST("", courtHandler.RegisterCourt)
		writes.PUT("/:id", courtHandler.UpdateCourt)
		writes.PUT("/:id/status", courtHandler.SetCourtStatus)
		writes.DELETE("/:id", courtHandler.DeleteCourt)
		writes.POST("/:id/follow", courtHandler.FollowCourt)
		writes.POST("/:id/unfollow", courtHandler.UnfollowCourt)
		writes.POST("/:id/photos", mediaHandler.AddPhotos)
		writes.POST("/:id/primary-photo", mediaHandler.SetPrimaryPhoto)
		writes.DELETE("/:id/photos/:photo_id", mediaHandler.DeletePhoto)
		writes.POST("/:id/videos", mediaHandler.AddVideo)
		writes.DELETE("/:id/videos/:video_id", mediaHandler.DeleteVideo)
		writes.POST("/:id/reviews", reviewHandler.SubmitReview)
		writes.GET("/:id/review-modal", reviewHandler.GetReviewModal)
	}

	// Drain the activity queue in the background.
	go activityService.StartWorker(context.Background())

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Court{},
		&model.Photo{},
		&model.CourtPhoto{},
		&model.Video{},
		&model.CourtVideo{},
		&model.CourtFollowing{},
		&model.CourtReview{},
		&model.Booking{},
		&model.Activity{},
	)
}
