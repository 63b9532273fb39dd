package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields) {}
func (l nopLogger) Info(event string, fields out.LogFields)  {}
func (l nopLogger) Warn(event string, fields out.LogFields)  {}
func (l nopLogger) Error(event string, fields out.LogFields) {}

func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

func newTestCache(t *testing.T) *CacheAdapter {
	cfg := &config.Config{}
	cfg.Cache.Size = 10

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	assert.NoError(t, err)
	assert.NotNil(t, adapter)
	return adapter
}

func testSlots() []domain.Slot {
	return []domain.Slot{
		{Time: json_types.NewClockTime(9, 0), IsAvailable: true},
		{Time: json_types.NewClockTime(10, 0), IsAvailable: false, Reason: domain.SlotReasonBooked},
	}
}

func TestCacheAdapter(t *testing.T) {
	ctx := context.Background()
	monday := json_types.NewDate(2025, time.June, 2)
	tuesday := json_types.NewDate(2025, time.June, 3)

	t.Run("Store And Get", func(t *testing.T) {
		adapter := newTestCache(t)
		doctorID := uuid.New()

		_, exists := adapter.GetDaySlots(ctx, doctorID, monday)
		assert.False(t, exists)

		adapter.StoreDaySlots(ctx, doctorID, monday, testSlots())

		slots, exists := adapter.GetDaySlots(ctx, doctorID, monday)
		assert.True(t, exists)
		assert.Equal(t, testSlots(), slots)
	})

	t.Run("Different Dates Are Independent Entries", func(t *testing.T) {
		adapter := newTestCache(t)
		doctorID := uuid.New()

		adapter.StoreDaySlots(ctx, doctorID, monday, testSlots())

		_, exists := adapter.GetDaySlots(ctx, doctorID, tuesday)
		assert.False(t, exists)
	})

	t.Run("Invalidate Day", func(t *testing.T) {
		adapter := newTestCache(t)
		doctorID := uuid.New()

		adapter.StoreDaySlots(ctx, doctorID, monday, testSlots())
		adapter.StoreDaySlots(ctx, doctorID, tuesday, testSlots())

		adapter.InvalidateDay(ctx, doctorID, monday)

		_, exists := adapter.GetDaySlots(ctx, doctorID, monday)
		assert.False(t, exists)
		_, exists = adapter.GetDaySlots(ctx, doctorID, tuesday)
		assert.True(t, exists, "other days of the doctor must survive")
	})

	t.Run("Invalidate Doctor Drops All Their Days", func(t *testing.T) {
		adapter := newTestCache(t)
		doctorID := uuid.New()
		otherDoctorID := uuid.New()

		adapter.StoreDaySlots(ctx, doctorID, monday, testSlots())
		adapter.StoreDaySlots(ctx, doctorID, tuesday, testSlots())
		adapter.StoreDaySlots(ctx, otherDoctorID, monday, testSlots())

		adapter.InvalidateDoctor(ctx, doctorID)

		_, exists := adapter.GetDaySlots(ctx, doctorID, monday)
		assert.False(t, exists)
		_, exists = adapter.GetDaySlots(ctx, doctorID, tuesday)
		assert.False(t, exists)
		_, exists = adapter.GetDaySlots(ctx, otherDoctorID, monday)
		assert.True(t, exists, "other doctors must not be affected")
	})

	t.Run("Invalidate All", func(t *testing.T) {
		adapter := newTestCache(t)
		doctorID := uuid.New()
		otherDoctorID := uuid.New()

		adapter.StoreDaySlots(ctx, doctorID, monday, testSlots())
		adapter.StoreDaySlots(ctx, otherDoctorID, tuesday, testSlots())

		adapter.InvalidateAll(ctx)

		_, exists := adapter.GetDaySlots(ctx, doctorID, monday)
		assert.False(t, exists)
		_, exists = adapter.GetDaySlots(ctx, otherDoctorID, tuesday)
		assert.False(t, exists)
	})
}
