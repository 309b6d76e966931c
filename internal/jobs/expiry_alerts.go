package jobs

import (
	"context"
	"sync"
	"time"

	"pharmpal/internal/caching"
	"pharmpal/internal/models"
	"pharmpal/internal/repositories"
	"pharmpal/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	DefaultExpiryAlertDays = 30
	sweepConcurrency       = 5
)

// ExpiryAlertService precomputes, per user, the batches that expire within
// the alert window and keeps them in Redis for the dashboard.
type ExpiryAlertService struct {
	users   repositories.UserRepository
	catalog services.CatalogService
	cache   caching.CacheService
	days    int
	ttl     time.Duration
}

// NewExpiryAlertService creates the service. Cached alerts live for ttl,
// which should exceed the sweep interval. cache may be nil.
func NewExpiryAlertService(users repositories.UserRepository, catalog services.CatalogService, cache caching.CacheService, days int, ttl time.Duration) *ExpiryAlertService {
	if days <= 0 {
		days = DefaultExpiryAlertDays
	}
	return &ExpiryAlertService{users: users, catalog: catalog, cache: cache, days: days, ttl: ttl}
}

// Days is the alert window.
func (a *ExpiryAlertService) Days() int {
	return a.days
}

// CheckExpiring computes the alerts for one user and stores them.
func (a *ExpiryAlertService) CheckExpiring(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error) {
	alerts, err := a.catalog.ExpiringWithin(ctx, userID, a.days)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		if err := a.cache.SetExpiryAlerts(ctx, userID, alerts, a.ttl); err != nil {
			log.Warnf("failed to cache expiry alerts for user %s: %v", userID, err)
		}
	}
	return alerts, nil
}

// Alerts returns the cached alerts for userID, computing them on a miss.
func (a *ExpiryAlertService) Alerts(ctx context.Context, userID uuid.UUID) ([]*models.ExpiringBatch, error) {
	if a.cache != nil {
		alerts, err := a.cache.GetExpiryAlerts(ctx, userID)
		if err != nil {
			log.Warnf("expiry alert cache read failed: %v", err)
		} else if alerts != nil {
			return alerts, nil
		}
	}
	return a.CheckExpiring(ctx, userID)
}

// Sweep refreshes the alerts of every active user and returns how many
// users have at least one expiring batch. Failures for one user are logged
// and do not stop the sweep.
func (a *ExpiryAlertService) Sweep(ctx context.Context) (int, error) {
	users, err := a.users.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	semaphore := make(chan struct{}, sweepConcurrency)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		affected int
	)
	for _, user := range users {
		wg.Add(1)
		go func(user *models.User) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			alerts, err := a.CheckExpiring(ctx, user.ID)
			if err != nil {
				log.Errorf("expiry check failed for user %s: %v", user.Username, err)
				return
			}
			if len(alerts) > 0 {
				logExpiryAlerts(user, alerts)
				mu.Lock()
				affected++
				mu.Unlock()
			}
		}(user)
	}
	wg.Wait()
	return affected, nil
}

func logExpiryAlerts(user *models.User, alerts []*models.ExpiringBatch) {
	log.Infof("%d batches expiring soon for user %s", len(alerts), user.Username)
	for _, alert := range alerts {
		log.Debugf("- %s lot %s expires %s (%d units)", alert.MedicineName, alert.LotNumber, alert.ExpiryDate, alert.Quantity)
	}
}
