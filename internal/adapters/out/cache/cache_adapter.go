package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

// daySlotsKey - ключ кэша: слоты считаются по паре (врач, дата)
type daySlotsKey struct {
	DoctorID uuid.UUID
	Date     string
}

// CacheAdapter - LRU-кэш вычисленных слотов.
// Включается только вместе с RabbitMQ-слушателем: без событий инвалидации
// закэшированная доступность слотов быстро протухнет.
type CacheAdapter struct {
	daySlots *lru.Cache[daySlotsKey, []domain.Slot]
	mu       sync.RWMutex
	logger   out.LoggerPort
}

// NewCacheAdapter создает кэш указанного размера. Решение, включать ли кэш
// вообще, принимает вызывающая сторона по конфигурации.
func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	daySlots, err := lru.New[daySlotsKey, []domain.Slot](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		daySlots: daySlots,
		logger:   logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slots, exists := c.daySlots.Get(daySlotsKey{DoctorID: doctorID, Date: date.String()})
	if !exists {
		c.logger.Debug("cache.day_slots.miss", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
		})
		return nil, false
	}

	c.logger.Debug("cache.day_slots.hit", out.LogFields{
		"doctorId":   doctorID,
		"date":       date,
		"slotsCount": len(slots),
	})
	return slots, true
}

func (c *CacheAdapter) StoreDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date, slots []domain.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.day_slots.store", out.LogFields{
		"doctorId":   doctorID,
		"date":       date,
		"slotsCount": len(slots),
	})

	c.daySlots.Add(daySlotsKey{DoctorID: doctorID, Date: date.String()}, slots)
}

func (c *CacheAdapter) InvalidateDay(ctx context.Context, doctorID uuid.UUID, date json_types.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.daySlots.Remove(daySlotsKey{DoctorID: doctorID, Date: date.String()})
}

// InvalidateDoctor сбрасывает все закэшированные дни врача,
// например после изменения его расписания
func (c *CacheAdapter) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.daySlots.Keys() {
		if key.DoctorID == doctorID {
			c.daySlots.Remove(key)
			removed++
		}
	}

	c.logger.Debug("cache.doctor.invalidated", out.LogFields{
		"doctorId": doctorID,
		"removed":  removed,
	})
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.daySlots.Purge()

	c.logger.Debug("cache.all.invalidated", out.LogFields{})
}
