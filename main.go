package main

import (
	"context"
	"log"
	"time"

	"court-booking/cmd"
	"court-booking/internal/data/repository"
	"court-booking/internal/scheduler"
	"court-booking/internal/usecase"
	"court-booking/internal/wire"
	"court-booking/pkg/cache"
	"court-booking/pkg/database"
	"court-booking/pkg/metrics"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
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

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(config.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	deps := usecase.Dependencies{Metrics: metrics.New("court_booking")}

	if config.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// cache and lock degrade on errors, so keep going
			logger.Warn("Redis ping failed", zap.String("addr", config.Redis.Addr), zap.Error(err))
		}
		cancel()

		deps.Cache = cache.NewRedisCache(redisClient, config.Redis.CacheTTL, logger)
		if config.Booking.LockEnabled {
			deps.Locker = cache.NewRedisLocker(redisClient, config.Booking.LockTTL, config.Booking.LockWait)
		}
		logger.Info("Redis configured", zap.Bool("booking_lock", config.Booking.LockEnabled))
	}

	if config.RabbitMQ.URL != "" {
		publisher, err := mq.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	sched, err := scheduler.New(app.Metrics, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := sched.RegisterJobs(scheduler.Jobs{
		Bookings:     app.Service.Booking,
		Sessions:     repos.Session,
		RateLimiter:  app.Limiter,
		CompleteCron: config.Booking.CompleteCron,
	}); err != nil {
		logger.Fatal("Failed to register jobs", zap.Error(err))
	}
	sched.Start()

	if err := cmd.APIServer(app.Router, config.App.Port, logger, func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("Scheduler stop failed", zap.Error(err))
		}
	}); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
