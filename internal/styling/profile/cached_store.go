// internal/styling/profile/cached_store.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "style:profile:"

// CachedStore is a Redis read-through cache in front of another Store.
// Absent profiles are not cached. Writes invalidate the entry.
type CachedStore struct {
	next   Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-cache"}),
	}
}

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

func (c *CachedStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	data, err := c.redis.Get(ctx, cacheKey(userID)).Bytes()
	switch {
	case err == nil:
		var p models.UserProfile
		if jsonErr := json.Unmarshal(data, &p); jsonErr == nil {
			return &p, nil
		}
		c.logger.Warn("discarding corrupt cached profile", map[string]interface{}{"userId": userID})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("profile cache read failed", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
	}

	p, err := c.next.GetProfile(ctx, userID)
	if err != nil || p == nil {
		return p, err
	}

	if payload, err := json.Marshal(p); err == nil {
		if err := c.redis.Set(ctx, cacheKey(userID), payload, c.ttl).Err(); err != nil {
			c.logger.Warn("profile cache write failed", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
	}
	return p, nil
}

func (c *CachedStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (bool, error) {
	ok, err := c.next.UpdateProfile(ctx, userID, update)
	if err != nil {
		return false, err
	}
	c.invalidate(ctx, userID)
	return ok, nil
}

func (c *CachedStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	if err := c.next.SaveProfile(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.UserID)
	return nil
}

func (c *CachedStore) invalidate(ctx context.Context, userID string) {
	if err := c.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
	}
}
