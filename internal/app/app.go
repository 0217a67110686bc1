package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skilldev_backend/internal/config"
	"skilldev_backend/internal/controller"
	"skilldev_backend/internal/repository"
	"skilldev_backend/internal/service"
	"skilldev_backend/internal/util"
	"skilldev_backend/pkg/configwatcher"
	"skilldev_backend/pkg/database"
	"skilldev_backend/pkg/logger"
	"skilldev_backend/pkg/monitoring"
	"skilldev_backend/pkg/security"
	"skilldev_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "skilldev-backend"

type App struct {
	Config          *config.Config
	ConfigPath      string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Services        *Services
	rateLimiter     *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	skill      *repository.SkillRepository
	worker     *repository.WorkerRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
}

// Services 命令行工具（seed、create-superuser）与 HTTP 层共用
type Services struct {
	Auth       *service.AuthService
	Storage    *service.StorageService
	Cache      *service.CatalogCache
	Skill      *service.SkillService
	Worker     *service.WorkerService
	Course     *service.CourseService
	Enrollment *service.EnrollmentService
	Dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	skill      *controller.SkillController
	course     *controller.CourseController
	worker     *controller.WorkerController
	enrollment *controller.EnrollmentController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		skill:      repository.NewSkillRepository(db),
		worker:     repository.NewWorkerRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *Services {
	s := &Services{}

	s.Auth = service.NewAuthService(repos.user, &cfg.JWT)
	s.Storage = service.NewStorageService(&cfg.Storage)
	s.Cache = service.NewCatalogCache(rdb, cfg.Redis.CacheTTL())
	s.Skill = service.NewSkillService(repos.skill, s.Cache)
	s.Worker = service.NewWorkerService(repos.worker, repos.skill, repos.enrollment)
	s.Course = service.NewCourseService(repos.course, repos.skill, repos.worker, repos.enrollment, s.Storage, s.Cache)
	s.Enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, s.Worker, s.Storage)
	s.Dashboard = service.NewDashboardService(s.Worker, repos.enrollment, repos.skill, repos.course, repos.worker, s.Cache)

	return s
}

func initControllers(s *Services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.Auth),
		skill:      controller.NewSkillController(s.Skill),
		course:     controller.NewCourseController(s.Course),
		worker:     controller.NewWorkerController(s.Worker),
		enrollment: controller.NewEnrollmentController(s.Enrollment),
		dashboard:  controller.NewDashboardController(s.Dashboard),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.rateLimiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 组装仓储、服务与路由，不做任何外部连接；rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	gin.SetMode(cfg.Server.Mode)

	app := &App{
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
		rateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
	}

	repos := initRepositories(db)
	app.Services = initServices(repos, cfg, rdb)
	controllers := initControllers(app.Services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		app.rateLimiter.SetLimit(newCfg.RateLimit.MaxRequests, newCfg.RateLimit.Window())
		app.Services.Cache.TTL = newCfg.Redis.CacheTTL()
	})

	return app
}

// Bootstrap 初始化日志、数据库、缓存与链路追踪后组装应用
func Bootstrap(cfg *config.Config, configPath string, migrate bool) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, err
	}

	// release 模式默认不自动迁移，需要显式指定
	if migrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis 不可用，目录缓存已禁用", zap.Error(err))
		rdb = nil
	}

	app := New(cfg, db, rdb)
	app.ConfigPath = configPath

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(serviceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigPath == "" {
		return
	}
	path := filepath.Join(a.ConfigPath, "config.yaml")
	go func() {
		err := configwatcher.Watch(ctx, path, func(newCfg *config.Config) {
			logger.Log.Info("配置已重新加载", zap.String("path", path))
			for _, callback := range a.configCallbacks {
				callback(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("配置热更新未启用", zap.Error(err))
		}
	}()
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.watchConfig(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	logger.Log.Info("Server exiting")
	return nil
}

// Close 命令行子命令结束时释放连接
func (a *App) Close() {
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	_ = logger.Log.Sync()
}
