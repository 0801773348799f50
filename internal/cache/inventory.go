package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix = "user:%d"
	PostKeyPrefix = "post:%d"
)

// Entry lifetimes. UserTTL is overridden from USER_CACHE_TTL_SECONDS at startup.
var (
	UserTTL = 5 * time.Minute
	PostTTL = 10 * time.Minute
)

// SetUserTTL changes the lifetime of cached user profiles. Non-positive values
// keep the default.
func SetUserTTL(ttl time.Duration) {
	if ttl > 0 {
		UserTTL = ttl
	}
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// Aside reads key into dest. On a miss it calls fetch, which must populate dest,
// and stores the result with ttl. Cache errors never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if json.Unmarshal(raw, dest) == nil {
				return nil
			}
		case !errors.Is(err, redis.Nil):
			log.Printf("cache read %s failed: %v", key, err)
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if b, err := json.Marshal(dest); err == nil {
			_ = client.Set(ctx, key, b, ttl).Err()
		}
	}
	return nil
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserKey(id))
	}
	Invalidate(ctx, keys...)
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
