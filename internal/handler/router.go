package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"xmute/mutehub/internal/config"
	"xmute/mutehub/internal/handler/middleware"
	jwtpkg "xmute/mutehub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	authHandler *AuthHandler,
	dispositionHandler *DispositionHandler,
	unmuteHandler *UnmuteHandler,
	mutedUsersHandler *MutedUsersHandler,
	whitelistHandler *WhitelistHandler,
	settingsHandler *SettingsHandler,
	statsHandler *StatsHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth route
	r.POST("/api/v1/auth/token", authHandler.Token)

	// Everything else requires a control-API token
	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtManager))
	{
		// Discovery client entry points
		api.POST("/users/process", dispositionHandler.ProcessUser)
		api.POST("/pipeline/reset", dispositionHandler.ResetPipeline)

		// Muted-user records
		api.GET("/muted-users", mutedUsersHandler.List)
		api.GET("/muted-users/export", mutedUsersHandler.ExportCSV)
		api.DELETE("/muted-users/:user_id", mutedUsersHandler.Delete)
		api.GET("/stats", statsHandler.Get)

		// Whitelist
		api.GET("/whitelist", whitelistHandler.List)
		api.POST("/whitelist", whitelistHandler.Add)
		api.DELETE("/whitelist/:user_id", whitelistHandler.Remove)

		// Blacklist + settings
		api.GET("/blacklist", settingsHandler.GetBlacklist)
		api.PUT("/blacklist", settingsHandler.UpdateBlacklist)
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)

		// Bulk unmute jobs
		api.POST("/unmute/jobs", unmuteHandler.Start)
		api.GET("/unmute/jobs/:id", unmuteHandler.Status)
		api.POST("/unmute/jobs/:id/cancel", unmuteHandler.Cancel)
	}

	return r
}
