// main.go
package main

import (
	"log"

	"shuttle-booking/cmd"
	"shuttle-booking/internal/data/repository"
	"shuttle-booking/internal/gateway"
	"shuttle-booking/internal/queue"
	"shuttle-booking/internal/wire"
	"shuttle-booking/pkg/database"
	"shuttle-booking/pkg/utils"

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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Settings cache; the app runs without it
	rdb := database.InitRedis(config.Redis)
	if rdb == nil {
		logger.Warn("Redis not reachable, settings cache disabled")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment gateway client and event publisher
	gw := gateway.NewClient(config.Gateway, logger)
	pub := queue.NewPublisher(config.Queue.URL, logger)

	// Wire all dependencies
	app := wire.Wiring(db, repos, config, gw, rdb, pub, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
