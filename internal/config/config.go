package config

import (
	"os"
	"strings"
)

// Config holds the configuration values for the application.
type Config struct {
	ListenPort    string
	MongoURI      string
	MongoDatabase string
	AllowOrigins  []string
	KafkaBrokers  string // empty disables the event producer
	TextbeltKey   string
}

// LoadConfig loads configuration from environment variables or uses default values.
func LoadConfig() *Config {
	cfg := &Config{
		ListenPort:    getenv("API_PORT", "8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "clinic"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		TextbeltKey:   os.Getenv("TEXTBELT_API_KEY"),
	}
	origins := getenv("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
