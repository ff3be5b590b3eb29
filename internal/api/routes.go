package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"skillshub/internal/api/middleware"
	"skillshub/internal/auth"
	"skillshub/internal/config"
	"skillshub/internal/database"
	"skillshub/internal/refcache"
	"skillshub/internal/storage"
)

// RegisterRoutes 在 /api 前缀下注册全部业务路由。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	refCache := refcache.New(refcache.NewRedisStore(redisClient), 10*time.Minute)

	authHandler := NewAuthHandler(db, authService, redisClient, logger,
		cfg.Auth.LoginRateLimitPerHour, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL, cfg.Auth.CookieDomain)
	jobHandler := NewJobHandler(db)
	employerHandler := NewEmployerHandler(db, asynqClient)
	applicationHandler := NewApplicationHandler(db, asynqClient)
	freelancerHandler := NewFreelancerHandler(db)
	profileHandler := NewProfileHandler(db)
	referenceHandler := NewReferenceHandler(db, refCache)
	fileHandler := NewFileHandler(db, storageClient, logger,
		cfg.Upload.ClamdAddr, cfg.Upload.MaxBytes, cfg.Upload.MIMEWhitelist)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)

	authRequired := middleware.AuthMiddleware(authService)
	seekerOnly := middleware.RequireRole(database.RoleSeeker)
	employerOnly := middleware.RequireRole(database.RoleEmployer)

	api := router.Group("/api")
	{
		api.GET("/ws", wsHandler.HandleConnection)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/change-password", authRequired, authHandler.ChangePassword)
			authGroup.GET("/me", authRequired, profileHandler.Me)
		}

		jobsGroup := api.Group("/jobs")
		{
			jobsGroup.GET("/available", jobHandler.ListAvailable)
			jobsGroup.GET("/recommended", authRequired, seekerOnly, jobHandler.ListRecommended)
			jobsGroup.GET("/:id", jobHandler.GetJob)
		}

		freelancersGroup := api.Group("/freelancers")
		{
			freelancersGroup.GET("/available", freelancerHandler.ListAvailable)
			freelancersGroup.GET("/top", freelancerHandler.ListTop)
			freelancersGroup.GET("/:id", freelancerHandler.GetFreelancer)
		}

		api.GET("/skills", referenceHandler.ListSkills)
		api.GET("/locations/regions", referenceHandler.ListRegions)

		api.POST("/applications/apply", authRequired, seekerOnly, applicationHandler.Apply)

		profileGroup := api.Group("/profile")
		profileGroup.Use(authRequired)
		{
			profileGroup.GET("/seeker", seekerOnly, profileHandler.GetSeekerProfile)
			profileGroup.PUT("/seeker", seekerOnly, profileHandler.UpdateSeekerProfile)
		}

		employerGroup := api.Group("/employer")
		employerGroup.Use(authRequired, employerOnly)
		{
			employerGroup.GET("/jobs", employerHandler.ListMyJobs)
			employerGroup.POST("/jobs", employerHandler.CreateJob)
			employerGroup.GET("/jobs/:id", employerHandler.GetMyJob)
			employerGroup.PATCH("/jobs/:id", employerHandler.UpdateJob)
			employerGroup.POST("/recruit", employerHandler.Recruit)
		}

		api.GET("/talents/:id", authRequired, employerOnly, employerHandler.GetTalent)

		api.POST("/upload", authRequired, fileHandler.Upload)
		api.GET("/files/:id", authRequired, fileHandler.Resolve)
		api.DELETE("/files/:id", authRequired, fileHandler.Delete)
	}
}
