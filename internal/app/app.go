package app

import (
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/controller"
	"adaptive_quiz_backend/internal/repository"
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/pkg/database"
	"adaptive_quiz_backend/pkg/logger"
	"adaptive_quiz_backend/pkg/monitoring"
	"adaptive_quiz_backend/pkg/security"
	"adaptive_quiz_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	node *repository.KnowledgeNodeRepository
	quiz *repository.QuizRepository
	item *repository.LearningItemRepository
}

type services struct {
	oracle     *service.AIService
	outline    *service.KnowledgeOutlineService
	retrieval  *service.RetrievalService
	generation *service.QuizGenerationService
	grading    *service.GradingService
	review     *service.ReviewService
}

type controllers struct {
	outline *controller.OutlineController
	quiz    *controller.QuizController
	review  *controller.ReviewController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由 configwatcher 回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Quiz = cfg.Quiz
	a.Config.Review = cfg.Review
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		node: repository.NewKnowledgeNodeRepository(db),
		quiz: repository.NewQuizRepository(db),
		item: repository.NewLearningItemRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.oracle = service.NewAIService(cfg.AI)
	s.outline = service.NewKnowledgeOutlineService(repos.node)
	s.retrieval = service.NewRetrievalService(repos.node)
	s.generation = service.NewQuizGenerationService(repos.node, repos.quiz, s.oracle, cfg.Quiz)
	s.grading = service.NewGradingService(db, repos.quiz, repos.item, s.oracle, s.retrieval, cfg.Quiz)
	s.review = service.NewReviewService(db, repos.item, rdb, cfg.Review)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.generation.UpdateConfig(newCfg.Quiz)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		outline: controller.NewOutlineController(s.outline),
		quiz:    controller.NewQuizController(s.generation, s.grading),
		review:  controller.NewReviewController(s.review),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 周期刷新到期复习条目数指标
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			count, err := repos.item.CountDue(time.Now())
			if err != nil {
				logger.Log.Error("due items refresh error", zap.Error(err))
				continue
			}
			monitoring.DueLearningItems.Set(float64(count))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || gin.Mode() != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担统计缓存，连不上时降级为直查数据库
		logger.Log.Warn("Redis unavailable, stats caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("adaptive-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
