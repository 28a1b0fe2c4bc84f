package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"linkly-be/internal/cache"
	"linkly-be/internal/config"
	"linkly-be/internal/controllers"
	"linkly-be/internal/database"
	"linkly-be/internal/idgen"
	"linkly-be/internal/middleware"
	"linkly-be/internal/repository"
	"linkly-be/internal/safety"
	"linkly-be/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("failed to load configuration", "error", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, "migrations"); err != nil {
		sugar.Fatalw("failed to run migrations", "error", err)
	}

	cacheClient, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("failed to connect to Redis", "error", err)
	}

	linkRepo := repository.NewLinkRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	generator := idgen.New()
	checker := safety.NewChecker(cfg.IPLookupTimeout)

	tokenService := service.NewTokenService(tokenRepo, generator, cfg.TokenIDLength, cfg.TokenMaxRetries, sugar)
	linkService := service.NewLinkService(linkRepo, cacheClient, checker, generator, service.LinkConfig{
		CodeLength: cfg.URLLength,
		MaxTries:   cfg.URLMaxRetries,
		BaseURL:    cfg.BaseURL,
	}, sugar)
	redirectService := service.NewRedirectService(linkRepo, cacheClient, cfg.RedirectCacheTTL, sugar)
	flusher := service.NewClickFlusher(cacheClient, linkRepo, sugar)

	// Register the recurring click flush. The flusher guards against
	// overlapping cycles itself.
	scheduler := cron.New()
	if err := scheduler.AddFunc(cfg.FlushClicksCron, func() {
		if err := flusher.Flush(context.Background()); err != nil {
			sugar.Errorw("click flush failed", "error", err)
		}
	}); err != nil {
		sugar.Fatalw("invalid click flush schedule", "cron", cfg.FlushClicksCron, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	linkController := controllers.NewLinkController(linkService, redirectService, cfg.BaseURL)
	tokenController := controllers.NewTokenController(tokenService)
	qrController := controllers.NewQRCodeController(linkService, cfg.BaseURL)

	apiLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	redirectLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(sugar))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public redirect endpoint with lenient rate limiting
	router.GET("/:id", redirectLimiter.Limit(), linkController.Redirect)

	api := router.Group("/api/v1")
	api.Use(apiLimiter.Limit())
	{
		// Token administration requires the admin secret
		admin := api.Group("/token", middleware.AdminAuth(cfg.AdminSecret))
		{
			admin.POST("", tokenController.GenerateToken)
			admin.DELETE("/:id", tokenController.RevokeToken)
		}

		// Link management requires an API token
		urls := api.Group("/url", middleware.APIKeyAuth(tokenService))
		{
			urls.POST("", linkController.CreateLink)
			urls.GET("", linkController.ListLinks)
			urls.GET("/:id", linkController.GetLink)
			urls.PATCH("/:id", linkController.UpdateLink)
			urls.DELETE("/:id", linkController.DeleteLink)
			urls.GET("/:id/qrcode", qrController.GenerateQRCode)
		}
	}

	sugar.Infow("server starting", "address", cfg.ServerAddress)
	if err := router.Run(cfg.ServerAddress); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}
