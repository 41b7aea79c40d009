// Package main 循环开票任务入口，支持 cron 常驻与单次执行
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/creditportfolio/internal/billing/application"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/infrastructure/messaging"
	"github.com/wyfcoding/creditportfolio/internal/portfolio/infrastructure/persistence/mysql"
	"github.com/wyfcoding/creditportfolio/pkg/config"
	"github.com/wyfcoding/creditportfolio/pkg/db"
	"github.com/wyfcoding/creditportfolio/pkg/logger"
	"github.com/wyfcoding/creditportfolio/pkg/metrics"
	"github.com/wyfcoding/creditportfolio/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "配置文件路径")
	once := flag.Bool("once", false, "只执行一轮后退出")
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

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init kafka producer", "error", err)
	}
	defer producer.Close()

	generator := application.NewGeneratorService(
		mysql.NewClientRepo(database.DB),
		mysql.NewInvoiceRepo(database.DB),
		messaging.NewKafkaEventPublisher(producer, messaging.Topics{
			Alerts:   cfg.Kafka.AlertTopic,
			Invoices: cfg.Kafka.InvoiceTopic,
		}),
		application.GeneratorConfig{
			AmountPct: decimal.NewFromFloat(cfg.Billing.DefaultAmountPct),
			GraceDays: cfg.Billing.GraceDays,
		},
		m,
		log,
	)

	runOnce := func() {
		start := time.Now()
		generated, err := generator.Run(ctx, time.Now())
		if err != nil {
			logger.Error(ctx, "invoice generation failed", "error", err)
			return
		}
		logger.Info(ctx, "invoice generation finished",
			"generated", generated,
			"duration", time.Since(start).String(),
		)
	}

	if *once {
		runOnce()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Billing.Schedule, runOnce); err != nil {
		logger.Fatal(ctx, "invalid billing schedule", "schedule", cfg.Billing.Schedule, "error", err)
	}

	logger.Info(ctx, "invoice generator started", "schedule", cfg.Billing.Schedule)
	c.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info(ctx, "invoice generator stopped")
}
