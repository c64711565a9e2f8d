package config

import (
	"os"

	"github.com/hauswerk/property-service/internal/utils"
)

const AppName = "property-service"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// Database
	DBUrl string

	// External services
	OpenAIAPIKey string

	// Declaration document storage
	UploadDir string
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:" + appPort
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		utils.Logger.Warn("OPENAI_API_KEY not set; declaration extraction disabled")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return &Config{
		AppName:      AppName,
		AppPort:      appPort,
		AppUrl:       appURL,
		DBUrl:        dbURL,
		OpenAIAPIKey: openAIKey,
		UploadDir:    uploadDir,
	}
}
