package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stayhaven/domain"
)

const sessionKeyFormat = "search_session:%s"

// RedisStore persists search sessions in Redis with a server-side TTL.
type RedisStore struct {
	cli    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisStore(cli *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{cli: cli, ttl: ttl, logger: logger}
}

func (s *RedisStore) Save(ctx context.Context, session *domain.SearchSession) (string, error) {
	id := uuid.New().String()
	stored := *session
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(&stored)
	if err != nil {
		return "", err
	}
	if err := s.cli.Set(constructSessionKey(id), payload, s.ttl).Err(); err != nil {
		s.logger.WithFields(logrus.Fields{"path": "session/redis"}).Error("Error saving search session:", err)
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.SearchSession, error) {
	payload, err := s.cli.Get(constructSessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.SearchSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func constructSessionKey(id string) string {
	return fmt.Sprintf(sessionKeyFormat, id)
}
