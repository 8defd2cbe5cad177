package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/voltaic/iqc/internal/config"
	"github.com/voltaic/iqc/internal/iqc/engine"
	"github.com/voltaic/iqc/internal/iqc/entity"
	"github.com/voltaic/iqc/internal/iqc/events"
	"github.com/voltaic/iqc/internal/iqc/handler"
	"github.com/voltaic/iqc/internal/iqc/repository"
	"github.com/voltaic/iqc/internal/iqc/service"
	"github.com/voltaic/iqc/internal/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting iqc service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.GRLot{},
		&entity.TraceabilityRecord{},
		&entity.SubcontractDetail{},
		&entity.InspectionDecision{},
		&entity.ActivityLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 仓库和服务
	repos := repository.NewRepositories(db)

	engineCfg := engine.Config{
		GeneralTolerance:       cfg.Inspection.GeneralTolerance,
		DefaultSamplingPercent: cfg.Inspection.DefaultSamplingPercent,
		MechanicalSampleCount:  cfg.Inspection.MechanicalSampleCount,
		ElectricalSampleCount:  cfg.Inspection.ElectricalSampleCount,
	}

	lotSvc := service.NewLotService(repos.Lot, repos.Subcontract, zapLogger)
	sessionSvc := service.NewSessionService(lotSvc, repos.ActivityLog, engineCfg)
	decisionSvc := service.NewDecisionService(sessionSvc, lotSvc, repos.Decision, repos.ActivityLog, zapLogger)
	traceSvc := service.NewTraceService(repos.Trace, zapLogger)
	traceSvc.SetRedis(rdb)

	// 判定事件发布（可选）
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewDecisionPublisher(cfg.Kafka.Brokers, cfg.Kafka.DecisionTopic, zapLogger)
		defer publisher.Close()
		decisionSvc.SetPublisher(publisher)
	}

	handlers := handler.NewHandlers(lotSvc, sessionSvc, decisionSvc, traceSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		iqc := v1.Group("/iqc")
		{
			// 批次
			iqc.GET("/lots", h.Lot.ListLots)
			iqc.GET("/lots/:slno/subcontract", h.Lot.GetSubcontract)

			// 检验会话
			sessions := iqc.Group("/sessions")
			{
				sessions.POST("", h.Session.SelectLot)
				sessions.GET("/current", h.Session.GetSession)
				sessions.DELETE("/current", h.Session.ClearSession)
				sessions.PUT("/current", h.Session.UpdateForm)
				sessions.PUT("/current/sampling-percent", h.Session.SetSamplingPercent)
				sessions.PUT("/current/accepted", h.Session.SetAccepted)
				sessions.PUT("/current/category", h.Session.SetCategory)
				sessions.POST("/current/rows", h.Session.InsertRow)
				sessions.DELETE("/current/rows/:index", h.Session.DeleteRow)
				sessions.PUT("/current/rows/:index/dimension", h.Session.SetDimension)
				sessions.PUT("/current/rows/:index/observations/:obs", h.Session.SetObservation)
				sessions.GET("/current/results", h.Session.GetResults)
				sessions.POST("/current/hold", h.Session.Hold)
				sessions.POST("/current/resume", h.Session.Resume)
				sessions.POST("/current/decision", h.Decision.Submit)
			}

			// 判定台账
			iqc.GET("/decisions", h.Decision.ListDecisions)
			iqc.GET("/decisions/export", h.Decision.ExportDecisions)

			// 追溯
			iqc.GET("/traceability", h.Trace.GetTimeline)
			iqc.GET("/reflist", h.Trace.ListReferences)
		}
	}
}
