package slot_scheduler_service

import (
	"fmt"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
)

// Таблица переходов статусов записи. cancelled достижим из любого
// нетерминального статуса; completed -> cancelled разрешен как
// административная корректировка; из cancelled выхода нет.
// Переходы в самого себя не разрешены.
var allowedTransitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.AppointmentStatusScheduled:  {domain.AppointmentStatusInProgress, domain.AppointmentStatusCancelled},
	domain.AppointmentStatusInProgress: {domain.AppointmentStatusCompleted, domain.AppointmentStatusCancelled},
	domain.AppointmentStatusCompleted:  {domain.AppointmentStatusCancelled},
	domain.AppointmentStatusCancelled:  {},
}

// ValidateStatusTransition проверяет переход статуса записи по таблице переходов
func ValidateStatusTransition(current, requested domain.AppointmentStatus) error {
	if !current.Valid() {
		return fmt.Errorf("%w: unknown appointment status %q", domain.ErrMalformedInput, current)
	}
	if !requested.Valid() {
		return fmt.Errorf("%w: unknown appointment status %q", domain.ErrMalformedInput, requested)
	}

	for _, allowed := range allowedTransitions[current] {
		if allowed == requested {
			return nil
		}
	}

	return &domain.IllegalTransitionError{Current: current, Requested: requested}
}
