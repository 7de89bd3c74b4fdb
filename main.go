// main.go
package main

import (
	"log"

	"ehousing-booking/cmd"
	"ehousing-booking/internal/data/repository"
	"ehousing-booking/internal/wire"
	"ehousing-booking/pkg/database"
	"ehousing-booking/pkg/mpesa"
	"ehousing-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
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

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Daraja client
	if config.Mpesa.ConsumerKey == "" || config.Mpesa.ShortCode == "" {
		logger.Warn("M-Pesa credentials are not configured, STK push will fail")
	}
	gateway := mpesa.NewClient(mpesa.Config{
		BaseURL:          config.Mpesa.BaseURL,
		ConsumerKey:      config.Mpesa.ConsumerKey,
		ConsumerSecret:   config.Mpesa.ConsumerSecret,
		ShortCode:        config.Mpesa.ShortCode,
		PassKey:          config.Mpesa.PassKey,
		CallbackURL:      config.Mpesa.CallbackURL,
		AccountReference: config.Mpesa.AccountReference,
		TransactionDesc:  config.Mpesa.TransactionDesc,
		Timeout:          config.Mpesa.Timeout,
		CacheToken:       config.Mpesa.CacheToken,
	}, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, gateway, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
