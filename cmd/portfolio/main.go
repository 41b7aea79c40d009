// Package main 信贷组合服务启动入口
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/creditportfolio/internal/portfolio/application"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/infrastructure/messaging"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/infrastructure/persistence/mysql"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/interfaces"
	"github.com/wyfcoding/creditportfolio/pkg/cache"
	"github.com/wyfcoding/creditportfolio/pkg/config"
	"github.com/wyfcoding/creditportfolio/pkg/db"
	"github.com/wyfcoding/creditportfolio/pkg/logger"
	"github.com/wyfcoding/creditportfolio/pkg/metrics"
	"github.com/wyfcoding/creditportfolio/pkg/middleware"
	"github.com/wyfcoding/creditportfolio/pkg/mq"
	"github.com/wyfcoding/creditportfolio/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	ctx := context.Background()

	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Metrics:            m,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init database", "error", err)
	}
	defer database.Close()

	if err := mysql.Migrate(database.DB); err != nil {
		logger.Fatal(ctx, "failed to migrate database", "error", err)
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init kafka producer", "error", err)
	}
	defer producer.Close()

	// 仓储
	advisorRepo := mysql.NewAdvisorRepo(database.DB)
	clientRepo := mysql.NewClientRepo(database.DB)
	invoiceRepo := mysql.NewInvoiceRepo(database.DB)
	paymentRepo := mysql.NewPaymentRepo(database.DB)
	promiseRepo := mysql.NewPromiseRepo(database.DB)
	noteRepo := mysql.NewNoteRepo(database.DB)

	eventPublisher := messaging.NewKafkaEventPublisher(producer, messaging.Topics{
		Alerts:   cfg.Kafka.AlertTopic,
		Invoices: cfg.Kafka.InvoiceTopic,
	})

	// 服务
	summaryTTL := time.Duration(cfg.Redis.SummaryTTL) * time.Second
	cmdService := application.NewCommandService(advisorRepo, clientRepo, invoiceRepo, paymentRepo, promiseRepo, noteRepo, eventPublisher, redisCache, log)
	queryService := application.NewQueryService(advisorRepo, clientRepo, invoiceRepo, paymentRepo, promiseRepo, noteRepo, eventPublisher, redisCache, summaryTTL, m, log)

	httpHandler := interfaces.NewHTTPHandler(cmdService, queryService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinMetricsMiddleware(m))
	limiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())
	router.Use(middleware.GinRateLimitMiddleware(limiter, cfg.RateLimit))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api/v1")
	httpHandler.RegisterRoutes(api)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, runCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info(runCtx, "starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			logger.Info(runCtx, "starting metrics server", "port", cfg.Metrics.Port)
			return metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
		})
	}

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			cancel()
		case <-runCtx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server error", "error", err)
		os.Exit(1)
	}
}
