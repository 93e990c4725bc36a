package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the inventory grid service.
type Config struct {
	Port          string // HTTP port (default: 3000)
	MongoURI      string // MongoDB connection string
	MongoDB       string // MongoDB database name
	Env           string // "development" or "production"
	AllowedOrigin string // CORS origin of the grid client
}

// LoadConfig loads environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          os.Getenv("PORT"),
		MongoURI:      os.Getenv("MONGO_DB_URL"),
		MongoDB:       os.Getenv("MONGO_DB_NAME"),
		Env:           os.Getenv("APP_ENV"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://127.0.0.1:27017"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "aggrid"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:5173"
	}

	return cfg, nil
}
