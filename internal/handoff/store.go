// Package handoff persists the payload the simulation screen hands to the
// read-only print view: the configured line items, horizon, investment, and
// the computed result. Payloads live under a short-lived token.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/simula-fin/simula/internal/simulation"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("handoff: payload not found")

const keyPrefix = "handoff:"

// Payload is the serializable hand-off state.
type Payload struct {
	Investment float64                `json:"investment"`
	Horizon    int                    `json:"horizon"`
	Selections []simulation.Selection `json:"selections"`
	Result     *simulation.Result     `json:"result,omitempty"`
}

// Store keeps payloads in Redis with a TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore wires a Store over the Redis client.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save persists the payload and returns its token.
func (s *Store) Save(ctx context.Context, p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Fetch loads the payload stored under token.
func (s *Store) Fetch(ctx context.Context, token string) (Payload, error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return Payload{}, ErrNotFound
	}
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
