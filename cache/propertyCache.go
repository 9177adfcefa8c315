package cache

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

const (
	cacheProperties = "properties:all"
	cacheTTL        = 300 * time.Second
)

// PropertyCache keeps the full listing set in Redis so the search page can be
// warmed before the first query hits Mongo.
type PropertyCache struct {
	cli    *redis.Client
	logger *logrus.Logger
}

// Construct Redis client
func New(logger *logrus.Logger) *PropertyCache {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisAddress := fmt.Sprintf("%s:%s", redisHost, redisPort)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &PropertyCache{
		cli:    client,
		logger: logger,
	}
}

func (pc *PropertyCache) Ping() {
	val, _ := pc.cli.Ping().Result()
	pc.logger.Println(val)
}

func (pc *PropertyCache) Client() *redis.Client {
	return pc.cli
}

func (pc *PropertyCache) PostAll(properties domain.Properties) error {
	var payload bytes.Buffer
	if err := properties.ToJSON(&payload); err != nil {
		return err
	}
	err := pc.cli.Set(cacheProperties, payload.Bytes(), cacheTTL).Err()
	if err != nil {
		pc.logger.WithFields(logrus.Fields{"path": "cache/propertyCache"}).Error("Error setting properties in Redis:", err)
		return err
	}
	return nil
}

func (pc *PropertyCache) GetAll() (domain.Properties, error) {
	payload, err := pc.cli.Get(cacheProperties).Bytes()
	if err != nil {
		return nil, err
	}
	var properties domain.Properties
	if err := properties.FromJSON(bytes.NewReader(payload)); err != nil {
		return nil, err
	}
	return properties, nil
}

func (pc *PropertyCache) Exists() bool {
	count, err := pc.cli.Exists(cacheProperties).Result()
	if err != nil {
		return false
	}
	return count > 0
}
