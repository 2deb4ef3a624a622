// Package cache stores finished analyses keyed by their input.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/models"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (*models.MapAnalysis, error)
	Set(ctx context.Context, key string, result *models.MapAnalysis) error
}

// Key hashes the components, relationships and thresholds that decide an
// analysis result. The comment is not part of the key.
func Key(snapshot models.Snapshot, thresholds analysis.Thresholds) (string, error) {
	payload := struct {
		Components    []models.Component    `json:"c"`
		Relationships []models.Relationship `json:"r"`
		Thresholds    analysis.Thresholds   `json:"t"`
	}{snapshot.Components, snapshot.Relationships, thresholds}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: "wardley:analysis:", ttl: ttl}
}

// DialRedis creates a client for addr and checks that it answers.
func DialRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return NewRedis(client, ttl), nil
}

func (c *Redis) Get(ctx context.Context, key string) (*models.MapAnalysis, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached analysis: %w", err)
	}

	var result models.MapAnalysis
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}

	return &result, nil
}

func (c *Redis) Set(ctx context.Context, key string, result *models.MapAnalysis) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}

	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
