package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotCache кэш рассчитанных слотов в Redis.
// Ключ включает локацию, услугу, сотрудника и дату; TTL короткий,
// кэш только снимает нагрузку с БД на горячих днях календаря.
// Ошибки кэша не фатальны - usecase при любой ошибке идёт в БД.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotCache создает кэш слотов поверх клиента Redis
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{
		client: client,
		ttl:    ttl,
	}
}

// Get возвращает закэшированные слоты; второе значение false при промахе
func (c *SlotCache) Get(ctx context.Context, locationID, serviceID, staffID int64, date string) ([]domain.AvailableSlot, bool, error) {
	payload, err := c.client.Get(ctx, slotKey(locationID, serviceID, staffID, date)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCacheGet, err)
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, false, fmt.Errorf("%w: unmarshal: %v", ErrCacheGet, err)
	}

	return slots, true, nil
}

// Set сохраняет слоты с настроенным TTL
func (c *SlotCache) Set(ctx context.Context, locationID, serviceID, staffID int64, date string, slots []domain.AvailableSlot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCacheSet, err)
	}

	if err := c.client.Set(ctx, slotKey(locationID, serviceID, staffID, date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSet, err)
	}

	return nil
}

// InvalidateStaffDate сбрасывает все слоты сотрудника на дату - для любой
// услуги и локации. Вызывается после создания, переноса и отмены записи,
// а также после правки расписания.
func (c *SlotCache) InvalidateStaffDate(ctx context.Context, staffID int64, date string) error {
	pattern := fmt.Sprintf("slots:*:*:%d:%s", staffID, date)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: del %s: %v", ErrCacheInvalidate, iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCacheInvalidate, err)
	}

	return nil
}

// InvalidateStaff сбрасывает все слоты сотрудника на все даты.
// Используется после замены расписания целиком.
func (c *SlotCache) InvalidateStaff(ctx context.Context, staffID int64) error {
	pattern := fmt.Sprintf("slots:*:*:%d:*", staffID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: del %s: %v", ErrCacheInvalidate, iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCacheInvalidate, err)
	}

	return nil
}

// InvalidateLocation сбрасывает все слоты локации на все даты.
// Используется после изменения часов работы локации.
func (c *SlotCache) InvalidateLocation(ctx context.Context, locationID int64) error {
	pattern := fmt.Sprintf("slots:%d:*", locationID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: del %s: %v", ErrCacheInvalidate, iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCacheInvalidate, err)
	}

	return nil
}

func slotKey(locationID, serviceID, staffID int64, date string) string {
	return fmt.Sprintf("slots:%d:%d:%d:%s", locationID, serviceID, staffID, date)
}

// NopSlotCache заглушка для окружений без Redis (cache.enabled = false)
type NopSlotCache struct{}

func (NopSlotCache) Get(ctx context.Context, locationID, serviceID, staffID int64, date string) ([]domain.AvailableSlot, bool, error) {
	return nil, false, nil
}

func (NopSlotCache) Set(ctx context.Context, locationID, serviceID, staffID int64, date string, slots []domain.AvailableSlot) error {
	return nil
}

func (NopSlotCache) InvalidateStaffDate(ctx context.Context, staffID int64, date string) error {
	return nil
}

func (NopSlotCache) InvalidateStaff(ctx context.Context, staffID int64) error {
	return nil
}

func (NopSlotCache) InvalidateLocation(ctx context.Context, locationID int64) error {
	return nil
}
