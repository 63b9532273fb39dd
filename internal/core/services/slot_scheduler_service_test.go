package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

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

// fakeStore - хранилище в памяти со счетчиками обращений
type fakeStore struct {
	schedules    map[uuid.UUID]domain.DoctorSchedule
	appointments map[uuid.UUID]domain.Appointment

	scheduleFetches    int
	appointmentFetches int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules:    make(map[uuid.UUID]domain.DoctorSchedule),
		appointments: make(map[uuid.UUID]domain.Appointment),
	}
}

func (s *fakeStore) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	s.scheduleFetches++
	schedule, exists := s.schedules[doctorID]
	if !exists {
		return nil, domain.ErrScheduleNotFound
	}
	return &schedule, nil
}

func (s *fakeStore) SaveDoctorSchedule(ctx context.Context, schedule domain.DoctorSchedule) error {
	s.schedules[schedule.DoctorID] = schedule
	return nil
}

func (s *fakeStore) GetDayAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error) {
	s.appointmentFetches++
	result := make([]domain.Appointment, 0)
	for _, appointment := range s.appointments {
		if appointment.DoctorID == doctorID && appointment.Date.Equal(date) {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (s *fakeStore) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	appointment, exists := s.appointments[appointmentID]
	if !exists {
		return nil, domain.ErrAppointmentNotFound
	}
	return &appointment, nil
}

// fakeCache хранит все без вытеснения и считает инвалидации
type fakeCache struct {
	entries            map[string][]domain.Slot
	doctorInvalidation int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]domain.Slot)}
}

func cacheKey(doctorID uuid.UUID, date json_types.Date) string {
	return doctorID.String() + "/" + date.String()
}

func (c *fakeCache) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, bool) {
	slots, exists := c.entries[cacheKey(doctorID, date)]
	return slots, exists
}

func (c *fakeCache) StoreDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date, slots []domain.Slot) {
	c.entries[cacheKey(doctorID, date)] = slots
}

func (c *fakeCache) InvalidateDay(ctx context.Context, doctorID uuid.UUID, date json_types.Date) {
	delete(c.entries, cacheKey(doctorID, date))
}

func (c *fakeCache) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	c.doctorInvalidation++
	prefix := doctorID.String() + "/"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *fakeCache) InvalidateAll(ctx context.Context) {
	c.entries = make(map[string][]domain.Slot)
}

// 2025-06-02 - понедельник
var testMonday = json_types.NewDate(2025, time.June, 2)

func newTestService(store *fakeStore, cache out.CachePort) *SlotSchedulerService {
	service := NewSlotSchedulerService(store, cache, nopLogger{})
	service.now = func() time.Time {
		return time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)
	}
	return service
}

func TestSlotSchedulerService(t *testing.T) {
	ctx := context.Background()

	t.Run("First Access Creates Default Schedule", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, nil)
		doctorID := uuid.New()

		schedule, err := service.GetSchedule(ctx, doctorID)

		assert.NoError(t, err)
		assert.Equal(t, 15, schedule.AppointmentDurationMinutes)
		assert.Contains(t, store.schedules, doctorID, "default schedule must be persisted")
	})

	t.Run("Update Schedule Rejects Invalid Configuration", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, nil)

		schedule := domain.DefaultSchedule(uuid.New())
		schedule.AppointmentDurationMinutes = 0

		err := service.UpdateSchedule(ctx, schedule)

		assert.ErrorIs(t, err, domain.ErrMalformedInput)
		assert.NotContains(t, store.schedules, schedule.DoctorID)
	})

	t.Run("Update Schedule Invalidates Doctor Cache", func(t *testing.T) {
		store := newFakeStore()
		cache := newFakeCache()
		service := newTestService(store, cache)

		schedule := domain.DefaultSchedule(uuid.New())
		otherDoctorID := uuid.New()
		cache.StoreDaySlots(ctx, schedule.DoctorID, testMonday, []domain.Slot{})
		cache.StoreDaySlots(ctx, otherDoctorID, testMonday, []domain.Slot{})

		assert.NoError(t, service.UpdateSchedule(ctx, schedule))

		assert.Equal(t, 1, cache.doctorInvalidation)
		_, exists := cache.GetDaySlots(ctx, schedule.DoctorID, testMonday)
		assert.False(t, exists, "updated doctor's days must be dropped")
		_, exists = cache.GetDaySlots(ctx, otherDoctorID, testMonday)
		assert.True(t, exists, "other doctors must not be affected")
	})

	t.Run("Day Slots Are Cached", func(t *testing.T) {
		store := newFakeStore()
		cache := newFakeCache()
		service := newTestService(store, cache)
		doctorID := uuid.New()

		first, err := service.GetDaySlots(ctx, doctorID, testMonday)
		assert.NoError(t, err)

		fetchesAfterFirst := store.appointmentFetches

		second, err := service.GetDaySlots(ctx, doctorID, testMonday)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, fetchesAfterFirst, store.appointmentFetches,
			"second read must be served from cache")
	})

	t.Run("Validate Booking Bypasses Cache", func(t *testing.T) {
		store := newFakeStore()
		cache := newFakeCache()
		service := newTestService(store, cache)
		doctorID := uuid.New()

		// Прогреваем кэш
		_, err := service.GetDaySlots(ctx, doctorID, testMonday)
		assert.NoError(t, err)
		fetchesAfterWarmup := store.appointmentFetches

		err = service.ValidateBooking(ctx, doctorID, testMonday, json_types.NewClockTime(10, 0))
		assert.NoError(t, err)

		assert.Greater(t, store.appointmentFetches, fetchesAfterWarmup,
			"booking validation must read a fresh snapshot")
	})

	t.Run("Validate Booking Sees Existing Appointment", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, nil)
		doctorID := uuid.New()

		appointment := domain.Appointment{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			PatientID: uuid.New(),
			Date:      testMonday,
			Time:      json_types.NewClockTime(10, 0),
			Status:    domain.AppointmentStatusScheduled,
		}
		store.appointments[appointment.ID] = appointment

		err := service.ValidateBooking(ctx, doctorID, testMonday, json_types.NewClockTime(10, 0))

		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	})

	t.Run("Validate Reschedule Loads The Appointment", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, nil)
		doctorID := uuid.New()

		appointment := domain.Appointment{
			ID:        uuid.New(),
			DoctorID:  doctorID,
			PatientID: uuid.New(),
			Date:      testMonday,
			Time:      json_types.NewClockTime(9, 0),
			Status:    domain.AppointmentStatusScheduled,
		}
		store.appointments[appointment.ID] = appointment

		err := service.ValidateReschedule(ctx, appointment.ID, testMonday, json_types.NewClockTime(10, 0))
		assert.NoError(t, err)

		err = service.ValidateReschedule(ctx, uuid.New(), testMonday, json_types.NewClockTime(10, 0))
		assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
	})

	t.Run("Validate Status Transition Uses Stored Status", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, nil)

		appointment := domain.Appointment{
			ID:       uuid.New(),
			DoctorID: uuid.New(),
			Date:     testMonday,
			Time:     json_types.NewClockTime(9, 0),
			Status:   domain.AppointmentStatusScheduled,
		}
		store.appointments[appointment.ID] = appointment

		err := service.ValidateStatusTransition(ctx, appointment.ID, domain.AppointmentStatusInProgress)
		assert.NoError(t, err)

		err = service.ValidateStatusTransition(ctx, appointment.ID, domain.AppointmentStatusCompleted)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})
}
