package out

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// CachePort - кэш вычисленных слотов по паре (врач, дата).
// Любое изменение записей или расписания инвалидирует день целиком:
// правило day-full нельзя корректно поддерживать точечными патчами.
type CachePort interface {
	GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, bool)
	StoreDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date, slots []domain.Slot)

	InvalidateDay(ctx context.Context, doctorID uuid.UUID, date json_types.Date)
	InvalidateDoctor(ctx context.Context, doctorID uuid.UUID)
	InvalidateAll(ctx context.Context)
}
