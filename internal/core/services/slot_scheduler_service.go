package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
	scheduler "github.com/suchimauz/hms-slot-scheduler/internal/core/services/slot_scheduler_service"
)

type SlotSchedulerService struct {
	storePort out.ScheduleStorePort
	cachePort out.CachePort
	logger    out.LoggerPort

	// Момент "сейчас" вынесен в поле, чтобы проверка PastDate была тестируемой
	now func() time.Time
}

func NewSlotSchedulerService(
	storePort out.ScheduleStorePort,
	cachePort out.CachePort,
	logger out.LoggerPort,
) *SlotSchedulerService {
	return &SlotSchedulerService{
		storePort: storePort,
		cachePort: cachePort,
		logger:    logger.WithModule("SlotSchedulerService"),
		now:       time.Now,
	}
}

// GetSchedule возвращает расписание врача.
// Если расписания еще нет, создается и сохраняется дефолтное.
func (s *SlotSchedulerService) GetSchedule(ctx context.Context, doctorID uuid.UUID) (domain.DoctorSchedule, error) {
	schedule, err := s.storePort.GetDoctorSchedule(ctx, doctorID)
	if err == nil {
		return *schedule, nil
	}

	if !errors.Is(err, domain.ErrScheduleNotFound) {
		s.logger.Error("schedule.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return domain.DoctorSchedule{}, err
	}

	// Первое обращение - создаем расписание по умолчанию
	defaultSchedule := domain.DefaultSchedule(doctorID)
	if err := s.storePort.SaveDoctorSchedule(ctx, defaultSchedule); err != nil {
		s.logger.Error("schedule.default.save_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return domain.DoctorSchedule{}, err
	}

	s.logger.Info("schedule.default.created", out.LogFields{
		"doctorId": doctorID,
	})

	return defaultSchedule, nil
}

// UpdateSchedule сохраняет расписание врача после проверки конфигурации
// и сбрасывает кэш слотов этого врача
func (s *SlotSchedulerService) UpdateSchedule(ctx context.Context, schedule domain.DoctorSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	if err := s.storePort.SaveDoctorSchedule(ctx, schedule); err != nil {
		s.logger.Error("schedule.save_failed", out.LogFields{
			"doctorId": schedule.DoctorID,
			"error":    err.Error(),
		})
		return err
	}

	if s.cachePort != nil {
		s.cachePort.InvalidateDoctor(ctx, schedule.DoctorID)
	}

	s.logger.Info("schedule.updated", out.LogFields{
		"doctorId": schedule.DoctorID,
	})

	return nil
}

// GetDaySlots возвращает слоты врача на дату, по возможности из кэша
func (s *SlotSchedulerService) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, error) {
	if s.cachePort != nil {
		if slots, exists := s.cachePort.GetDaySlots(ctx, doctorID, date); exists {
			s.logger.Debug("slots.cache.hit", out.LogFields{
				"doctorId":   doctorID,
				"date":       date,
				"slotsCount": len(slots),
			})
			return slots, nil
		}
	}

	schedule, appointments, err := s.loadDaySnapshot(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	slots := scheduler.ComputeAvailableSlots(schedule, date, appointments)

	if s.cachePort != nil {
		s.cachePort.StoreDaySlots(ctx, doctorID, date, slots)
	}

	s.logger.Debug("slots.computed", out.LogFields{
		"doctorId":   doctorID,
		"date":       date,
		"slotsCount": len(slots),
	})

	return slots, nil
}

// ValidateBooking проверяет запись по свежему снимку хранилища, минуя кэш:
// проверка консультативная, финальную атомарную перепроверку делает внешний слой
// непосредственно перед коммитом
func (s *SlotSchedulerService) ValidateBooking(ctx context.Context, doctorID uuid.UUID, date json_types.Date, tm json_types.ClockTime) error {
	schedule, appointments, err := s.loadDaySnapshot(ctx, doctorID, date)
	if err != nil {
		return err
	}

	return scheduler.ValidateBooking(schedule, date, tm, s.now(), appointments)
}

// ValidateReschedule проверяет перенос записи на новые дату и время
func (s *SlotSchedulerService) ValidateReschedule(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newTime json_types.ClockTime) error {
	appointment, err := s.storePort.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	schedule, appointments, err := s.loadDaySnapshot(ctx, appointment.DoctorID, newDate)
	if err != nil {
		return err
	}

	return scheduler.ValidateReschedule(schedule, *appointment, newDate, newTime, s.now(), appointments)
}

// ValidateStatusTransition проверяет переход статуса существующей записи
func (s *SlotSchedulerService) ValidateStatusTransition(ctx context.Context, appointmentID uuid.UUID, requested domain.AppointmentStatus) error {
	appointment, err := s.storePort.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	return scheduler.ValidateStatusTransition(appointment.Status, requested)
}

func (s *SlotSchedulerService) InvalidateDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) {
	if s.cachePort == nil {
		return
	}
	s.cachePort.InvalidateDay(ctx, doctorID, date)
}

func (s *SlotSchedulerService) InvalidateDoctorSlots(ctx context.Context, doctorID uuid.UUID) {
	if s.cachePort == nil {
		return
	}
	s.cachePort.InvalidateDoctor(ctx, doctorID)
}

func (s *SlotSchedulerService) InvalidateAllSlots(ctx context.Context) {
	if s.cachePort == nil {
		return
	}
	s.cachePort.InvalidateAll(ctx)
}

// loadDaySnapshot читает расписание врача и его записи на дату одним снимком
func (s *SlotSchedulerService) loadDaySnapshot(ctx context.Context, doctorID uuid.UUID, date json_types.Date) (domain.DoctorSchedule, []domain.Appointment, error) {
	schedule, err := s.GetSchedule(ctx, doctorID)
	if err != nil {
		return domain.DoctorSchedule{}, nil, err
	}

	appointments, err := s.storePort.GetDayAppointments(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"error":    err.Error(),
		})
		return domain.DoctorSchedule{}, nil, err
	}

	return schedule, appointments, nil
}
