package slot_scheduler_service

import (
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// ComputeAvailableSlots вычисляет список слотов врача на указанную дату.
// Чистая детерминированная функция: никакого I/O и чтения часов,
// результат зависит только от аргументов.
//
// Слоты идут по возрастанию времени с шагом AppointmentDurationMinutes,
// последний слот должен целиком помещаться до конца рабочего дня.
// Для нерабочего дня возвращается пустой список - это "врач не принимает",
// а не ошибка.
func ComputeAvailableSlots(
	schedule domain.DoctorSchedule,
	date json_types.Date,
	existing []domain.Appointment,
) []domain.Slot {
	slots := make([]domain.Slot, 0)

	weekday := domain.WeekdayMap[date.Weekday()]
	workingDay, ok := schedule.WorkingDayFor(weekday)
	if !ok || !workingDay.IsWorking {
		return slots
	}

	occupied := occupiedTimes(date, existing)

	// Лимит записей в день: если неотмененных записей уже не меньше максимума,
	// все слоты дня принудительно недоступны с причиной day-full.
	// Считаем сами записи, а не уникальные времена: хранилище может
	// пропустить две записи на одно время
	dayFull := countOccupying(date, existing) >= schedule.MaxAppointmentsPerDay

	duration := schedule.AppointmentDurationMinutes
	for start := workingDay.StartTime; !workingDay.EndTime.Before(start.Add(duration)); start = start.Add(duration) {
		slot := domain.Slot{
			Time:        start,
			IsAvailable: true,
		}

		switch {
		case dayFull:
			slot.IsAvailable = false
			slot.Reason = domain.SlotReasonDayFull
		case occupied[start]:
			slot.IsAvailable = false
			slot.Reason = domain.SlotReasonBooked
		case overlapsBreak(workingDay, start, duration):
			slot.IsAvailable = false
			slot.Reason = domain.SlotReasonBreak
		}

		slots = append(slots, slot)
	}

	return slots
}

// countOccupying считает неотмененные записи на указанную дату
func countOccupying(date json_types.Date, existing []domain.Appointment) int {
	count := 0
	for _, appointment := range existing {
		if appointment.Date.Equal(date) && appointment.Status.OccupiesSlot() {
			count++
		}
	}
	return count
}

// occupiedTimes собирает времена начала неотмененных записей на указанную дату
func occupiedTimes(date json_types.Date, existing []domain.Appointment) map[json_types.ClockTime]bool {
	occupied := make(map[json_types.ClockTime]bool)
	for _, appointment := range existing {
		if !appointment.Date.Equal(date) {
			continue
		}
		if !appointment.Status.OccupiesSlot() {
			continue
		}
		occupied[appointment.Time] = true
	}
	return occupied
}

// overlapsBreak проверяет, пересекается ли слот [start, start+duration) с окном перерыва
func overlapsBreak(workingDay domain.WorkingDay, start json_types.ClockTime, duration int) bool {
	if !workingDay.HasBreak() {
		return false
	}
	return start.Before(*workingDay.BreakEnd) && (*workingDay.BreakStart).Before(start.Add(duration))
}
