package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore keeps issued bearer tokens in Redis so every app instance sees
// the same session set and revocation is immediate.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore with the given token lifetime.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints a fresh token for the identity.
func (s *TokenStore) Issue(ctx context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	value := fmt.Sprintf("%d:%s", id.UserID, id.Role)
	if err := s.client.Set(ctx, tokenKeyPrefix+token, value, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks a token up and refreshes its TTL on hit.
func (s *TokenStore) Resolve(ctx context.Context, token string) (Identity, error) {
	value, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, err
	}

	userPart, rolePart, ok := strings.Cut(value, ":")
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	userID, err := strconv.ParseInt(userPart, 10, 64)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	// sliding expiry
	_ = s.client.Expire(ctx, tokenKeyPrefix+token, s.ttl).Err()

	return Identity{UserID: userID, Role: Role(rolePart)}, nil
}

// Revoke invalidates a token immediately.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}
