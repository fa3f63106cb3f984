package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookdirectstays/internal/adminauth"
	"bookdirectstays/internal/config"
	"bookdirectstays/internal/handler"
	"bookdirectstays/internal/middleware"
	"bookdirectstays/internal/tracker"
	"bookdirectstays/pkg/airtable"
	"bookdirectstays/pkg/database"
	auth "bookdirectstays/pkg/jwt"
	"bookdirectstays/pkg/logger"
	"bookdirectstays/pkg/redis"

	_ "bookdirectstays/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title           BookDirectStays API
// @version         1.0
// @description     host 目录、点击追踪、提交审核与管理员登录
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Bearer <token>

func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Println("配置加载失败:", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Println("日志初始化失败:", err)
		os.Exit(1)
	}
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	if err := cfg.Validate(); err != nil {
		sugaredLogger.Fatalf("配置校验失败: %v", err)
	}

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)

	rdb, err := redis.NewRedisClient(&redis.Options{
		Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
	})
	switch {
	case err != nil:
		sugaredLogger.Warnf("缓存连接失败，点击计数退回进程内加锁: %v", err)
	case rdb == nil:
		sugaredLogger.Info("未配置 Redis，点击计数使用进程内加锁")
	default:
		defer func() {
			if err := rdb.Close(); err != nil {
				sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
			}
		}()
		sugaredLogger.Info("✅ 缓存连接成功")
	}

	store, err := airtable.NewClient(airtable.Config{
		BaseURL: cfg.Airtable.BaseURL,
		APIKey:  cfg.Airtable.APIKey,
		BaseID:  cfg.Airtable.BaseID,
		Table:   cfg.Airtable.Table,
		Timeout: cfg.Airtable.Timeout(),
	}, nil)
	if err != nil {
		sugaredLogger.Fatalf("Airtable 客户端初始化失败: %v", err)
	}

	clickTracker := tracker.New(store, tracker.NewLocker(rdb, cfg.Tracker.LockTTL()), cfg.Tracker.CallTimeout(), sugaredLogger)
	dispatcher := tracker.NewDispatcher(clickTracker, cfg.Tracker.QueueSize, cfg.Tracker.Workers, 3*cfg.Tracker.CallTimeout(), sugaredLogger)
	dispatcher.Start()
	defer dispatcher.Stop()
	sugaredLogger.Info("✅ 点击追踪已启动")

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.SessionTTL())
	gate := adminauth.NewGate(adminauth.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
		UserInfoURL:  cfg.Google.UserInfoURL,
		LandingURL:   cfg.Auth.AdminLandingURL,
		Timeout:      cfg.Google.Timeout(),
	}, adminauth.SingleAdmin(cfg.Auth.AdminEmail), tokenManager, nil, sugaredLogger)
	sugaredLogger.Info("✅ 认证管理器初始化成功")

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.RequestID())
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	router.Use(middleware.RateLimit(&cfg.RateLimit))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(router, routes{
		health:      handler.NewHealthHandler(db),
		click:       handler.NewClickHandler(clickTracker, dispatcher),
		auth:        handler.NewAuthHandler(gate),
		host:        handler.NewHostHandler(store, cfg.Airtable.View),
		submission:  handler.NewSubmissionHandler(db, store),
		adminMiddle: middleware.AdminAuth(gate),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("服务启动失败: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sugaredLogger.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugaredLogger.Errorf("服务关闭失败: %v", err)
	}
	sugaredLogger.Info("服务已关闭")
}

func openDatabase(cfg *config.DB) (*gorm.DB, error) {
	if cfg.Driver == "sqlite" {
		path := cfg.Name
		if path == "" {
			path = "bookdirectstays.db"
		}
		return database.InitSQLite(path)
	}
	return database.InitMySQL(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.Charset)
}

type routes struct {
	health      *handler.HealthHandler
	click       *handler.ClickHandler
	auth        *handler.AuthHandler
	host        *handler.HostHandler
	submission  *handler.SubmissionHandler
	adminMiddle gin.HandlerFunc
}

func registerRoutes(router *gin.Engine, r routes) {
	router.GET("/health", r.health.HealthCheck)
	router.POST("/log-click", r.click.LogClick)
	router.POST("/track", r.click.Track)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/google", r.auth.GoogleLogin)
		authGroup.GET("/google/callback", r.auth.GoogleCallback)
		authGroup.GET("/verify", r.auth.Verify)
	}

	api := router.Group("/api")
	{
		api.GET("/hosts", r.host.ListHosts)
		api.GET("/hosts/:id", r.host.GetHost)
		api.POST("/submissions", r.submission.CreateSubmission)
	}

	admin := api.Group("/admin")
	admin.Use(r.adminMiddle)
	{
		admin.GET("/submissions", r.submission.ListSubmissions)
		admin.POST("/submissions/:id/approve", r.submission.ApproveSubmission)
		admin.POST("/submissions/:id/reject", r.submission.RejectSubmission)
	}
}
