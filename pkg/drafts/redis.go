package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultKeyPrefix namespaces draft keys.
const DefaultKeyPrefix = "formbuilder:draft:"

// Redis is a Store backed by redis. Take uses GETDEL so a token is claimed
// at most once even across server instances.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis returns a redis-backed Store; ttl <= 0 selects DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, errors.New("drafts: redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, prefix: DefaultKeyPrefix, ttl: ttl}, nil
}

// Put stores schema as JSON with the configured TTL.
func (r *Redis) Put(ctx context.Context, schema model.FormSchema) (string, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("drafts: encode schema: %w", err)
	}
	token := newToken()
	if err := r.client.Set(ctx, r.prefix+token, data, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("drafts: store draft: %w", err)
	}
	return token, nil
}

// Take claims the draft.
func (r *Redis) Take(ctx context.Context, token string) (model.FormSchema, error) {
	data, err := r.client.GetDel(ctx, r.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.FormSchema{}, ErrNotFound
	}
	if err != nil {
		return model.FormSchema{}, fmt.Errorf("drafts: take draft: %w", err)
	}
	var schema model.FormSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return model.FormSchema{}, fmt.Errorf("drafts: decode draft: %w", err)
	}
	return schema, nil
}
