package in

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

type SlotSchedulerUseCase interface {
	// Расписание врача: чтение с созданием дефолтного при первом обращении и обновление
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (domain.DoctorSchedule, error)
	UpdateSchedule(ctx context.Context, schedule domain.DoctorSchedule) error

	// Вычисление слотов врача на дату
	GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, error)

	// Консультативные проверки: запись, перенос, переход статуса
	ValidateBooking(ctx context.Context, doctorID uuid.UUID, date json_types.Date, tm json_types.ClockTime) error
	ValidateReschedule(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newTime json_types.ClockTime) error
	ValidateStatusTransition(ctx context.Context, appointmentID uuid.UUID, requested domain.AppointmentStatus) error

	// Обслуживание кэша слотов при событиях изменения записей и расписаний
	InvalidateDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date)
	InvalidateDoctorSlots(ctx context.Context, doctorID uuid.UUID)
	InvalidateAllSlots(ctx context.Context)
}
