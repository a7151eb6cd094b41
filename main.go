package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quranstudy/config"
	"quranstudy/handlers"
	"quranstudy/logger"
	"quranstudy/middleware"
	"quranstudy/models"
	"quranstudy/monitoring"
	"quranstudy/repository"
	"quranstudy/response"
	"quranstudy/routes"
	"quranstudy/services"
	"quranstudy/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	seedAdmin := flag.Bool("seed-admin", false, "create the admin account if it does not exist, then exit")
	adminEmail := flag.String("admin-email", "admin@example.com", "email of the seeded admin")
	adminPassword := flag.String("admin-password", "admin123", "password of the seeded admin")
	seedSurahs := flag.String("seed-surahs", "", "load surahs from a JSON file into the database, then exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zapLogger := logger.New(cfg)
	defer func() { _ = zapLogger.Sync() }()

	response.SetProduction(cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Quiz{},
		&models.Question{},
		&models.Attempt{},
		&models.Surah{},
	)
	if err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	surahRepo := repository.NewSurahRepository(db)

	userService := services.NewUserService(userRepo, tokenRepo, zapLogger)

	if *seedAdmin {
		user, created, err := userService.SeedAdmin(context.Background(), "Admin User", *adminEmail, *adminPassword)
		if err != nil {
			zapLogger.Fatal("Failed to seed admin", zap.Error(err))
		}
		zapLogger.Info("admin account ready", zap.String("email", user.Email), zap.Bool("created", created))
		return
	}

	// Initialize Redis
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	redisClient, err := config.InitRedis(rootCtx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	surahService := services.NewSurahService(
		surahRepo,
		services.NewRedisDashboardCache(services.NewRedisCache(redisClient, "surah", cfg.Cache.DashboardTTL)),
		cfg.Surah,
		zapLogger,
	)

	if *seedSurahs != "" {
		if err := loadSurahs(rootCtx, surahService, *seedSurahs); err != nil {
			zapLogger.Fatal("Failed to seed surahs", zap.String("file", *seedSurahs), zap.Error(err))
		}
		return
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			zapLogger.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				zapLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	monitoring.Register(prometheus.DefaultRegisterer)

	// Initialize WebSocket hub
	hub := services.NewHub(zapLogger)
	go hub.Run()

	// Initialize services
	tokenService := services.NewTokenService(tokenRepo, cfg.JWT)
	authService := services.NewAuthService(userRepo, tokenService, tokenRepo, zapLogger)
	quizService := services.NewQuizService(
		quizRepo,
		services.NewAIService(cfg.AI, zapLogger),
		services.NewRedisQuizCache(redisClient, cfg.Cache.QuizListTTL),
		hub,
		zapLogger,
	)
	searchService := services.NewSearchService(surahRepo)

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("Failed to access database handle", zap.Error(err))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	quizHandler := handlers.NewQuizHandler(quizService, hub, zapLogger)
	surahHandler := handlers.NewSurahHandler(surahService, searchService)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"database": sqlDB,
		"redis": handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	// Setup Gin router
	router := gin.New()
	router.Use(
		middleware.RequestLogger(zapLogger),
		middleware.Recovery(zapLogger),
		middleware.Secure(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		monitoring.MetricsMiddleware(),
	)
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	routes.SetupRoutes(rootCtx, router, cfg, tokenService, authHandler, userHandler, quizHandler, surahHandler, healthHandler)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.BindAddress, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server")

	hub.Stop()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}

func loadSurahs(ctx context.Context, svc *services.SurahService, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var surahs []models.Surah
	if err := json.Unmarshal(data, &surahs); err != nil {
		return err
	}
	return svc.Seed(ctx, surahs)
}
