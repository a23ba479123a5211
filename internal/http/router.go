package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nimbus-apps/adminpanel/internal/config"
	"github.com/nimbus-apps/adminpanel/internal/http/api/handlers"
	"github.com/nimbus-apps/adminpanel/internal/ratelimit"
	"github.com/nimbus-apps/adminpanel/internal/session"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

// NewRouter builds the gin engine with the route guard, auth actions and the
// permission-gated admin API.
func NewRouter(conn *gorm.DB, cfg *config.Config, sessions *session.Manager, limiter *ratelimit.LoginLimiter) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RouteGuard(sessions))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	admins := store.NewAdminStore(conn)
	roles := store.NewRoleStore(conn)
	otps := store.NewOTPStore(conn)
	media := store.NewMediaStore(conn)

	authHandler := handlers.NewAuthHandler(admins, roles, otps, sessions, limiter)
	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/check-invited", authHandler.CheckInvitedEmail)
	auth.POST("/register", authHandler.Register)
	auth.POST("/otp/initiate", authHandler.InitiateOTP)
	auth.POST("/otp/verify", authHandler.VerifyOTP)

	adminAPI := api.Group("/admin")
	adminAPI.Use(sessions.Required())

	mediaHandler := handlers.NewMediaHandler(media, cfg.MediaDir)
	mediaAPI := adminAPI.Group("/media")
	mediaAPI.GET("/folders", sessions.RequirePermission("media.view"), mediaHandler.ListFolders)
	mediaAPI.POST("/folders", sessions.RequirePermission("media.edit"), mediaHandler.CreateFolder)
	mediaAPI.PUT("/folders/:id", sessions.RequirePermission("media.edit"), mediaHandler.RenameFolder)
	mediaAPI.DELETE("/folders/:id", sessions.RequirePermission("media.delete"), mediaHandler.DeleteFolder)
	mediaAPI.GET("/files", sessions.RequirePermission("media.view"), mediaHandler.ListFiles)
	mediaAPI.GET("/search", sessions.RequirePermission("media.view"), mediaHandler.SearchFiles)
	mediaAPI.POST("/files", sessions.RequirePermission("media.upload"), mediaHandler.Upload)
	mediaAPI.PUT("/files/:id", sessions.RequirePermission("media.edit"), mediaHandler.RenameFile)
	mediaAPI.DELETE("/files/:id", sessions.RequirePermission("media.delete"), mediaHandler.DeleteFile)

	adminsHandler := handlers.NewAdminsHandler(admins, roles)
	adminAPI.GET("/admins", sessions.RequirePermission("admins.view"), adminsHandler.List)
	adminAPI.POST("/admins", sessions.RequirePermission("admins.manage"), adminsHandler.Invite)
	adminAPI.PUT("/admins/:id", sessions.RequirePermission("admins.manage"), adminsHandler.Update)

	rolesHandler := handlers.NewRolesHandler(roles)
	adminAPI.GET("/roles", sessions.RequirePermission("roles.view"), rolesHandler.List)
	adminAPI.GET("/permissions", sessions.RequirePermission("roles.view"), rolesHandler.Permissions)
	adminAPI.PUT("/roles/:id/permissions", sessions.RequirePermission("roles.manage"), rolesHandler.ReplacePermissions)

	settingsHandler := handlers.NewSettingsHandler(conn)
	adminAPI.GET("/settings", sessions.RequirePermission("settings.view"), settingsHandler.Get)
	adminAPI.PUT("/settings", sessions.RequirePermission("settings.manage"), settingsHandler.Put)

	engine.Static("/static/media", cfg.MediaDir)

	return engine
}
