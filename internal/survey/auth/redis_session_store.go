package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sitesurvey/internal/survey/model"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	client *redis.Client
}

// ConnectRedis initializes a Redis client from URL or host:port input.
// Supporting both formats keeps local/dev and container config paths simple.
func ConnectRedis(addr string) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") {
		opt, parseErr := redis.ParseURL(addr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *model.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sess.TokenID, payload, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, tokenID string) (*model.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+tokenID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionInvalid
	}
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tokenID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+tokenID).Err()
}
