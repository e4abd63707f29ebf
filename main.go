// main.go
package main

import (
	"context"
	"log"
	"time"

	"hotel-booking/cmd"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/notify"
	"hotel-booking/internal/wire"
	"hotel-booking/internal/worker"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/database"
	"hotel-booking/pkg/redis"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	clk := clock.Real()

	// Notification transport; falls back to the log when redis is not configured
	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if config.Redis.Enabled() {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = config.Redis.Host
		redisCfg.Port = config.Redis.Port
		redisCfg.Password = config.Redis.Password
		redisCfg.DB = config.Redis.DB

		client, err := redis.NewClient(ctx, redisCfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		publisher = notify.NewRedisPublisher(client, config.Redis.NotificationList)
		logger.Info("Redis connected successfully", zap.String("list", config.Redis.NotificationList))
	}

	outboxWorker := worker.NewOutboxWorker(repos.Outbox, publisher, worker.OutboxConfig{
		PollInterval:    config.Outbox.PollInterval,
		RetryInterval:   config.Outbox.RetryInterval,
		CleanupInterval: time.Hour,
		BatchSize:       config.Outbox.BatchSize,
		RetentionDays:   config.Outbox.RetentionDays,
	}, clk, logger)
	if err := outboxWorker.Start(ctx); err != nil {
		logger.Fatal("Failed to start outbox worker", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, clk, logger)

	cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger, func() {
		outboxWorker.Stop()
		cancel()
	})
}
