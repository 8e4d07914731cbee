package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rjcreations/internal/domain"
)

// IntentStore keeps one memoized gateway order per session, expiring after ttl.
type IntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIntentStore(client *redis.Client) *IntentStore {
	return &IntentStore{client: client, ttl: TTLCheckoutIntent}
}

type storedIntent struct {
	Fingerprint string               `json:"fingerprint"`
	Intent      domain.PaymentIntent `json:"intent"`
}

func (s *IntentStore) GetIntent(ctx context.Context, sessionID, fingerprint string) (domain.PaymentIntent, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeyCheckoutIntent, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PaymentIntent{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("redis get failed: %w", err)
	}
	var st storedIntent
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("unmarshal intent failed: %w", err)
	}
	if st.Fingerprint != fingerprint {
		return domain.PaymentIntent{}, domain.ErrNotFound
	}
	return st.Intent, nil
}

func (s *IntentStore) PutIntent(ctx context.Context, sessionID, fingerprint string, in domain.PaymentIntent) error {
	data, err := json.Marshal(storedIntent{Fingerprint: fingerprint, Intent: in})
	if err != nil {
		return fmt.Errorf("marshal intent failed: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(KeyCheckoutIntent, sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
