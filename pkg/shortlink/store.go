package shortlink

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shortlink:"

// Store issues short viewer URLs for long share links. Entries live in redis
// with a short TTL; an expired key and a never-issued key look the same.
type Store struct {
	rdb     *redis.Client
	baseURL string
	ttl     time.Duration
}

func NewStore(rdb *redis.Client, baseURL string, ttl time.Duration) *Store {
	return &Store{
		rdb:     rdb,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
	}
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Shorten stores the target URL and returns the short viewer URL.
func (s *Store) Shorten(ctx context.Context, target string) (string, error) {
	key := newKey()
	if err := s.rdb.Set(ctx, keyPrefix+key, target, s.ttl).Err(); err != nil {
		return "", err
	}
	return s.baseURL + "/view?key=" + key, nil
}

// Resolve returns the stored target URL, or empty string when the key is
// unknown or expired.
func (s *Store) Resolve(ctx context.Context, key string) (string, error) {
	target, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return target, nil
}
