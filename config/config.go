package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName   string
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisHost     string
	RedisPort     string
	JaegerAddress string
	SecretKey     string

	PMSBaseURL  string
	PMSUsername string
	PMSPassword string

	SessionTTLMinutes int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("couldn't load .env file, relying on environment")
	}

	sessionTTL := 30
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			sessionTTL = parsed
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "stayhaven"
	}

	return &Config{
		ServiceName:       serviceName,
		Port:              port,
		MongoURI:          os.Getenv("MONGO_DB_URI"),
		MongoDatabase:     os.Getenv("MONGO_DB_NAME"),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         os.Getenv("REDIS_PORT"),
		JaegerAddress:     os.Getenv("JAEGER_ADDRESS"),
		SecretKey:         os.Getenv("SECRET_KEY"),
		PMSBaseURL:        os.Getenv("PMS_BASE_URL"),
		PMSUsername:       os.Getenv("PMS_USERNAME"),
		PMSPassword:       os.Getenv("PMS_PASSWORD"),
		SessionTTLMinutes: sessionTTL,
	}
}
