// Package rediscache keeps scored attempts in Redis so result lookups can
// skip SQLite.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session/internal/quiz"
)

const keyPrefix = "quiz:result:"

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// ResultCache implements quiz.ResultCache.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = quiz.DefaultResultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

func (c *ResultCache) GetResult(ctx context.Context, attemptID string) (quiz.QuizResult, bool, error) {
	raw, err := c.client.Get(ctx, resultKey(attemptID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.QuizResult{}, false, nil
		}
		return quiz.QuizResult{}, false, fmt.Errorf("get cached result %s: %w", attemptID, err)
	}

	var result quiz.QuizResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return quiz.QuizResult{}, false, fmt.Errorf("decode cached result %s: %w", attemptID, err)
	}
	return result, true, nil
}

func (c *ResultCache) SetResult(ctx context.Context, result quiz.QuizResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.AttemptID, err)
	}
	if err := c.client.Set(ctx, resultKey(result.AttemptID), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache result %s: %w", result.AttemptID, err)
	}
	return nil
}

func resultKey(attemptID string) string {
	return keyPrefix + attemptID
}
