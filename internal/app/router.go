package app

import (
	"ggsc_backend/docs"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/middleware"
	"ggsc_backend/internal/model"
	"ggsc_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	authRequired := middleware.AuthMiddleware(cfg, s.auth)
	adminOnly := middleware.RoleMiddleware(model.Admin)

	api := router.Group("/api")
	a.registerAuthRoutes(api, c, authRequired)
	a.registerUserRoutes(api, c, authRequired, adminOnly)
	a.registerVerifyRoutes(api, c)
	a.registerGameRoutes(api, c, authRequired, adminOnly)
	a.registerQrMazeRoutes(api, c, authRequired, adminOnly)
	a.registerScoreRoutes(api, c, authRequired, adminOnly)
	a.registerTeamRoutes(api, c, authRequired, adminOnly)

	admin := api.Group("/admin")
	admin.Use(authRequired, adminOnly)
	{
		admin.GET("/export/:kind", c.admin.Export)
		admin.POST("/test-email", c.admin.SendTestEmail)
	}
}

func (a *App) registerAuthRoutes(api *gin.RouterGroup, c *controllers, authRequired gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/signup", c.auth.Signup)
		auth.POST("/login", c.auth.Login)
		auth.POST("/logout", authRequired, c.auth.Logout)
		auth.GET("/me", authRequired, c.auth.Me)
	}
}

func (a *App) registerUserRoutes(api *gin.RouterGroup, c *controllers, authRequired, adminOnly gin.HandlerFunc) {
	users := api.Group("/users")
	users.Use(authRequired, adminOnly)
	{
		users.GET("", c.user.GetUsers)
		users.GET("/:id", c.user.GetUser)
		users.PATCH("/:id", c.user.UpdateUser)
	}
}

func (a *App) registerVerifyRoutes(api *gin.RouterGroup, c *controllers) {
	api.POST("/verify-email", c.verify.VerifyEmail)
	api.POST("/verify-email/bulk", c.verify.VerifyBulk)
}

func (a *App) registerGameRoutes(api *gin.RouterGroup, c *controllers, authRequired, adminOnly gin.HandlerFunc) {
	game := api.Group("/game")
	{
		game.POST("/submit-level", c.game.SubmitLevel)
		game.GET("/results/:email", c.game.GetResults)
		game.GET("/leaderboard", c.game.GetLeaderboard)

		game.GET("/submissions", authRequired, adminOnly, c.game.GetSubmissions)
		game.DELETE("/submission/:id", authRequired, adminOnly, c.game.DeleteSubmission)
	}
}

func (a *App) registerQrMazeRoutes(api *gin.RouterGroup, c *controllers, authRequired, adminOnly gin.HandlerFunc) {
	qrmaze := api.Group("/qrmaze")
	{
		qrmaze.POST("/verify-email", c.qrmaze.VerifyEmail)
		qrmaze.POST("/submit-score", c.qrmaze.SubmitScore)
		qrmaze.GET("/user/:email", c.qrmaze.GetUserProgress)
		qrmaze.GET("/leaderboard", c.qrmaze.GetOverallLeaderboard)
		qrmaze.GET("/leaderboard/:setNumber", c.qrmaze.GetSetLeaderboard)

		qrmaze.GET("/set/:setNumber/submissions", authRequired, adminOnly, c.qrmaze.GetSetSubmissions)
		qrmaze.PUT("/update-score", authRequired, adminOnly, c.qrmaze.UpdateScore)
		qrmaze.DELETE("/submission/:id", authRequired, adminOnly, c.qrmaze.DeleteSubmission)
	}
}

func (a *App) registerScoreRoutes(api *gin.RouterGroup, c *controllers, authRequired, adminOnly gin.HandlerFunc) {
	scores := api.Group("/scores")
	{
		scores.GET("/leaderboard", c.score.GetOverallLeaderboard)
		scores.GET("/leaderboard/:round", c.score.GetRoundLeaderboard)

		scores.POST("/update", authRequired, adminOnly, c.score.UpdateScore)
		scores.POST("/batch-update", authRequired, adminOnly, c.score.BatchUpdate)
	}
}

func (a *App) registerTeamRoutes(api *gin.RouterGroup, c *controllers, authRequired, adminOnly gin.HandlerFunc) {
	teams := api.Group("/teams")
	{
		teams.GET("", c.team.GetTeams)
		teams.GET("/user/:identifier", c.team.GetUserTeam)
		teams.GET("/:teamNumber", c.team.GetTeam)

		teams.POST("/create-random", authRequired, adminOnly, c.team.CreateRandom)
		teams.DELETE("/clear", authRequired, adminOnly, c.team.ClearTeams)
	}
}
