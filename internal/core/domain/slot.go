package domain

import (
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// SlotUnavailableReason - машиночитаемая причина недоступности слота
type SlotUnavailableReason string

const (
	SlotReasonBooked  SlotUnavailableReason = "booked"
	SlotReasonDayFull SlotUnavailableReason = "day-full"
	SlotReasonBreak   SlotUnavailableReason = "break"
)

// Slot - кандидат на время записи. Вычисляется заново на каждый запрос,
// между запросами не хранится.
type Slot struct {
	Time        json_types.ClockTime  `json:"time"`
	IsAvailable bool                  `json:"isAvailable"`
	Reason      SlotUnavailableReason `json:"reason,omitempty"`
}
