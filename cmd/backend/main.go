package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"messenger_service/internal/backend/app"
	"messenger_service/internal/backend/repository"
	"messenger_service/internal/backend/router"
	"messenger_service/pkg/config"
	"messenger_service/pkg/database"
	"messenger_service/pkg/logger"
	testtool "messenger_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.Backend, config.EnvConfig.BackendLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Backend](config.EnvConfig.Backend, config.EnvConfig.BackendYAMLPath)

	ctx := context.Background()

	// 1. store
	var store repository.Store
	switch cfg.Store {
	case "mongo":
		uri := database.MongoURI(cfg.MongoSQL.Host, cfg.MongoSQL.Port, cfg.MongoSQL.User, cfg.MongoSQL.Password)
		mongo, err := database.NewMongoDB(ctx,
			database.Connection{
				ConnectStr:    uri,
				RetryCount:    cfg.MongoSQL.RetryCount,
				RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
			},
			cfg.MongoSQL.Database)
		if err != nil {
			logger.Log.Fatal("Unable to connect to mongoDB database after retries",
				zap.String("host", cfg.MongoSQL.Host),
				zap.Error(err),
			)
		}
		defer mongo.Close(ctx)
		store = repository.NewMongoStore(mongo.Database, cfg.Collections)
	default:
		store = repository.NewMemoryStore(cfg.Collections)
	}

	// 2. change feed
	publisher := repository.NewNopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(ctx, database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval) * time.Second,
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.Error(err))
		}
		publisher = repository.NewKafkaPublisher(writer)
	}
	defer publisher.Close()

	// 3. fiber
	r := fiber.New(fiber.Config{AppName: "messenger backend", Immutable: true})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.BackendLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewResourceHandler(app.NewResourceUseCase(store, publisher)))

	testtool.StartPprof()

	port := ":" + cfg.Port
	logger.Log.Info("backend listening", zap.String("port", port), zap.String("store", cfg.Store), zap.Strings("collections", cfg.Collections))
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
