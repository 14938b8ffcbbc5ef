package main

import (
	"io"
	"log"
	"os"

	"realestate-catalog/pkg/config"
	"realestate-catalog/pkg/logger"

	"github.com/joho/godotenv"
)

const serviceName = "catalog-api"

// load environment variables and configuration
func LoadConfiguration() *config.Config {
	loadEnvironment()
	cfg := loadConfigFile()
	initLogging(cfg)
	return cfg
}

// load environment variables from .env file
func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on system environment variables: %v", err)
	}
}

// load the application configuration from a YAML file
func loadConfigFile() *config.Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.GlobalLogger.Fatalf("Failed to load config: %v", err)
	}

	return cfg
}

// route logs to stdout and, when enabled, to Fluent Bit
func initLogging(cfg *config.Config) {
	var output io.Writer = os.Stdout
	fluentCfg := cfg.Logging.Fluent
	if fluentCfg.Enabled {
		fw, err := logger.NewFluentWriter(fluentCfg.Host, fluentCfg.Port, fluentCfg.TagPrefix, serviceName)
		if err != nil {
			log.Printf("Fluent logging disabled: %v", err)
		} else {
			output = logger.Tee(os.Stdout, fw)
		}
	}
	logger.InitLogger(output, cfg.Logging.Level)
}
