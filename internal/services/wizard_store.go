package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/redisclient"
)

// StateStore persists registration wizard state between steps. State is
// ephemeral: TTL-bounded and deleted once the submission is consumed.
type StateStore interface {
	Save(ctx context.Context, state *models.RegistrationState, ttl time.Duration) error
	Load(ctx context.Context, id string) (*models.RegistrationState, error)
	Delete(ctx context.Context, id string) error
}

// redisStateStore stores wizard state in Redis
type redisStateStore struct {
	client *redisclient.Client
}

// NewRedisStateStore creates a Redis-backed wizard state store
func NewRedisStateStore(client *redisclient.Client) StateStore {
	return &redisStateStore{client: client}
}

func wizardKey(id string) string {
	return "registration:" + id
}

func (s *redisStateStore) Save(ctx context.Context, state *models.RegistrationState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard state: %w", err)
	}
	if err := s.client.Set(ctx, wizardKey(state.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save wizard state: %w", err)
	}
	return nil
}

func (s *redisStateStore) Load(ctx context.Context, id string) (*models.RegistrationState, error) {
	data, err := s.client.Get(ctx, wizardKey(id)).Result()
	if err == redis.Nil {
		return nil, models.ErrWizardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard state: %w", err)
	}

	var state models.RegistrationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard state: %w", err)
	}
	return &state, nil
}

func (s *redisStateStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, wizardKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard state: %w", err)
	}
	return nil
}
