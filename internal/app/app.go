package app

import (
	"context"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/controller"
	"ggsc_backend/internal/repository"
	"ggsc_backend/internal/service"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/configwatcher"
	"ggsc_backend/pkg/database"
	"ggsc_backend/pkg/logger"
	"ggsc_backend/pkg/monitoring"
	"ggsc_backend/pkg/security"
	"ggsc_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginWhitelist
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	gameLevel *repository.GameLevelRepository
	qrmaze    *repository.QrMazeRepository
	team      *repository.TeamRepository
	blacklist *repository.TokenBlacklist
}

type services struct {
	identity *service.IdentityResolver
	email    *service.EmailService
	storage  *service.StorageService
	auth     *service.AuthService
	user     *service.UserService
	verify   *service.VerifyService
	game     *service.GameService
	qrmaze   *service.QrMazeService
	score    *service.ScoreService
	team     *service.TeamService
	export   *service.ExportService
}

type controllers struct {
	auth   *controller.AuthController
	user   *controller.UserController
	verify *controller.VerifyController
	game   *controller.GameController
	qrmaze *controller.QrMazeController
	score  *controller.ScoreController
	team   *controller.TeamController
	admin  *controller.AdminController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		gameLevel: repository.NewGameLevelRepository(db),
		qrmaze:    repository.NewQrMazeRepository(db),
		team:      repository.NewTeamRepository(db),
		blacklist: repository.NewTokenBlacklist(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	email, err := service.NewEmailService(cfg.Mail)
	if err != nil {
		logger.Log.Fatal("Failed to load mail templates", zap.Error(err))
	}
	s.email = email
	s.storage = service.NewStorageService(&cfg.Storage)
	s.identity = service.NewIdentityResolver(repos.user)

	s.auth = service.NewAuthService(repos.user, repos.blacklist, s.email, cfg)
	s.user = service.NewUserService(repos.user)
	s.verify = service.NewVerifyService(repos.user)
	s.game = service.NewGameService(repos.gameLevel, repos.user, s.identity)
	s.qrmaze = service.NewQrMazeService(repos.qrmaze, repos.user, s.identity)
	s.score = service.NewScoreService(repos.team, s.identity)
	s.team = service.NewTeamService(repos.team, repos.user, s.identity)
	s.export = service.NewExportService(s.game, s.qrmaze, s.score, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		user:   controller.NewUserController(s.user),
		verify: controller.NewVerifyController(s.verify),
		game:   controller.NewGameController(s.game),
		qrmaze: controller.NewQrMazeController(s.qrmaze, s.verify),
		score:  controller.NewScoreController(s.score),
		team:   controller.NewTeamController(s.team),
		admin:  controller.NewAdminController(s.export, s.email),
		health: controller.NewHealthController(db, a.Config.Server.Environment),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks wires the settings that can change without a restart.
func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.origins.Replace(cfg.CORS.AllowedOrigins)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.auth.SetAdminEmails(cfg.Auth.AdminEmails)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.email.Reconfigure(cfg.Mail)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := logger.SetLevel(cfg.Log.Level, cfg.Server.Mode); err != nil {
			logger.Log.Warn("Ignoring log level from reloaded config", zap.Error(err))
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.RunMigrations(cfg.Database.URL()); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg}
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		origins: security.NewOriginWhitelist(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)
	app.registerConfigCallbacks(services)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("ggsc-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, "configs", 500*time.Millisecond, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	logger.Log.Info("Server exiting")
}
