package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/velodesk/repair-service/internal/persistence"
	"github.com/velodesk/repair-service/internal/repository"
	"github.com/velodesk/repair-service/internal/validate"
	apperrors "github.com/velodesk/repair-service/pkg/util"
)

// listCache keeps serialized list responses in Redis for a short TTL. It is
// best-effort: cache failures degrade to repository reads and are never
// surfaced to callers.
type listCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

func newListCache(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *listCache {
	if redis == nil || redis.Client == nil || ttl <= 0 {
		return nil
	}
	return &listCache{redis: redis, ttl: ttl, logger: logger}
}

func (c *listCache) get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Debug("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *listCache) set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *listCache) invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Debug("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// mapEntityError converts repository and validation failures into the HTTP
// error taxonomy.
func mapEntityError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	if errors.Is(err, repository.ErrDuplicateProtocol) {
		return apperrors.NewConflict("protocol number already allocated", nil)
	}
	var fieldErr *validate.FieldError
	if errors.As(err, &fieldErr) {
		return apperrors.NewValidationError(fieldErr.Message, map[string]any{
			"field": fieldErr.Field,
			"code":  string(fieldErr.Code),
		})
	}
	return err
}
