package out

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// ScheduleStorePort - внешнее хранилище расписаний и записей на прием.
// Планировщик сам базу не читает и не пишет: DoctorSchedule и Appointment
// живут во внешнем сторе, сюда ходим простыми запросами.
type ScheduleStorePort interface {
	// Расписания врачей
	GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error)
	SaveDoctorSchedule(ctx context.Context, schedule domain.DoctorSchedule) error

	// Записи на прием (только чтение)
	GetDayAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error)
	GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error)
}
