package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmpal/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pharmpal"

type CacheService interface {
	// Medicine caching
	GetMedicine(ctx context.Context, userID, medicineID uuid.UUID) (*models.Medicine, error)
	SetMedicine(ctx context.Context, userID uuid.UUID, medicine *models.Medicine, ttl time.Duration) error
	DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error

	// Expiry alerts computed by the background sweep
	GetExpiryAlerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error)
	SetExpiryAlerts(ctx context.Context, userID uuid.UUID, alerts []*models.ExpiringBatch, ttl time.Duration) error

	DeleteExpiryAlerts(ctx context.Context, userID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisCacheService connects to addr, which may be a bare host:port or a
// redis:// / rediss:// URL.
func NewRedisCacheService(addr, password string, db int) CacheService {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Warnf("invalid redis url, using it as an address: %v", err)
		} else {
			opts = parsed
			if password != "" {
				opts.Password = password
			}
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnf("redis ping failed on initialization: %v (address: %s)", err, opts.Addr)
	} else {
		log.Infof("redis connection established (address: %s)", opts.Addr)
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

func medicineKey(userID, medicineID uuid.UUID) string {
	return fmt.Sprintf("%s:medicine:%s:%s", keyPrefix, userID, medicineID)
}

func expiryAlertsKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:expiry-alerts:%s:latest", keyPrefix, userID)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetMedicine(ctx context.Context, userID, medicineID uuid.UUID) (*models.Medicine, error) {
	var medicine models.Medicine
	found, err := r.getJSON(ctx, medicineKey(userID, medicineID), &medicine)
	if err != nil || !found {
		return nil, err // nil, nil on cache miss
	}
	medicine.UserID = userID
	return &medicine, nil
}

func (r *redisCacheService) SetMedicine(ctx context.Context, userID uuid.UUID, medicine *models.Medicine, ttl time.Duration) error {
	return r.setJSON(ctx, medicineKey(userID, medicine.ID), medicine, ttl)
}

func (r *redisCacheService) DeleteMedicine(ctx context.Context, userID, medicineID uuid.UUID) error {
	return r.client.Del(ctx, medicineKey(userID, medicineID)).Err()
}

func (r *redisCacheService) GetExpiryAlerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error) {
	var alerts []*models.ExpiringBatch
	if _, err := r.getJSON(ctx, expiryAlertsKey(userID), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *redisCacheService) SetExpiryAlerts(ctx context.Context, userID uuid.UUID, alerts []*models.ExpiringBatch, ttl time.Duration) error {
	return r.setJSON(ctx, expiryAlertsKey(userID), alerts, ttl)
}

func (r *redisCacheService) DeleteExpiryAlerts(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, expiryAlertsKey(userID)).Err()
}

// IsRateLimited counts a hit against key in a fixed window and reports
// whether the limit is exceeded.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, cacheKey)
	pipe.ExpireNX(ctx, cacheKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
