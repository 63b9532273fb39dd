package slot_scheduler_service

import (
	"time"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// ValidateBooking проверяет, можно ли записаться к врачу на указанные дату и время.
// Проверка только консультативная: сама запись создается внешним слоем,
// который обязан повторить проверку по свежему снимку непосредственно перед
// атомарным коммитом (уникальный индекс doctor+date+time+неотмененный или
// транзакционный check-and-insert).
//
// Момент "сейчас" передается аргументом, чтобы функция оставалась чистой.
func ValidateBooking(
	schedule domain.DoctorSchedule,
	date json_types.Date,
	tm json_types.ClockTime,
	now time.Time,
	existing []domain.Appointment,
) error {
	// Записи задним числом запрещены независимо от состояния слотов
	if date.Before(json_types.DateOf(now)) {
		return domain.ErrPastDate
	}

	slots := ComputeAvailableSlots(schedule, date, existing)
	for _, slot := range slots {
		if slot.Time != tm {
			continue
		}
		if !slot.IsAvailable {
			return &domain.SlotUnavailableError{Reason: slot.Reason}
		}
		return nil
	}

	return domain.ErrInvalidSlot
}

// ValidateReschedule проверяет перенос существующей записи на новые дату и время.
// Сама переносимая запись исключается из проверки занятости: она переезжает,
// а не дублируется. Отмененную запись перенести можно, завершенную - нет.
func ValidateReschedule(
	schedule domain.DoctorSchedule,
	appointment domain.Appointment,
	newDate json_types.Date,
	newTime json_types.ClockTime,
	now time.Time,
	existing []domain.Appointment,
) error {
	if appointment.Status == domain.AppointmentStatusCompleted {
		return domain.ErrTerminalAppointment
	}

	others := make([]domain.Appointment, 0, len(existing))
	for _, a := range existing {
		if a.ID == appointment.ID {
			continue
		}
		others = append(others, a)
	}

	return ValidateBooking(schedule, newDate, newTime, now, others)
}
