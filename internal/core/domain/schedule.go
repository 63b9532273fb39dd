package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

type Weekday string

const (
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
	WeekdaySunday    Weekday = "sunday"
)

var WeekdayMap = map[time.Weekday]Weekday{
	time.Monday:    WeekdayMonday,
	time.Tuesday:   WeekdayTuesday,
	time.Wednesday: WeekdayWednesday,
	time.Thursday:  WeekdayThursday,
	time.Friday:    WeekdayFriday,
	time.Saturday:  WeekdaySaturday,
	time.Sunday:    WeekdaySunday,
}

// AllWeekdays - порядок дней недели в расписании врача
var AllWeekdays = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

// WorkingDay - настройка одного дня недели в расписании врача.
// Если IsWorking = false, то StartTime/EndTime не используются при генерации слотов.
// BreakStart/BreakEnd - необязательное окно перерыва внутри рабочего дня.
type WorkingDay struct {
	Day        Weekday               `json:"day"`
	IsWorking  bool                  `json:"isWorking"`
	StartTime  json_types.ClockTime  `json:"startTime"`
	EndTime    json_types.ClockTime  `json:"endTime"`
	BreakStart *json_types.ClockTime `json:"breakStart,omitempty"`
	BreakEnd   *json_types.ClockTime `json:"breakEnd,omitempty"`
}

// HasBreak сообщает, задано ли окно перерыва полностью
func (wd WorkingDay) HasBreak() bool {
	return wd.BreakStart != nil && wd.BreakEnd != nil
}

const (
	MinAppointmentDuration = 5
	MaxAppointmentDuration = 60

	MinAppointmentsPerDay      = 1
	MaxAppointmentsPerDayLimit = 50
)

// DoctorSchedule - конфигурация рабочих часов врача, по одной записи на день недели
type DoctorSchedule struct {
	DoctorID                   uuid.UUID    `json:"doctorId"`
	WorkingDays                []WorkingDay `json:"workingDays"`
	AppointmentDurationMinutes int          `json:"appointmentDuration"`
	MaxAppointmentsPerDay      int          `json:"maxAppointmentsPerDay"`
}

// DefaultSchedule возвращает расписание по умолчанию, которое создается
// при первом обращении к расписанию врача: Пн-Пт 09:00-17:00, прием 15 минут, максимум 20 записей в день
func DefaultSchedule(doctorID uuid.UUID) DoctorSchedule {
	workingDays := make([]WorkingDay, 0, len(AllWeekdays))
	for _, day := range AllWeekdays {
		working := day != WeekdaySaturday && day != WeekdaySunday
		wd := WorkingDay{
			Day:       day,
			IsWorking: working,
		}
		if working {
			wd.StartTime = json_types.NewClockTime(9, 0)
			wd.EndTime = json_types.NewClockTime(17, 0)
		}
		workingDays = append(workingDays, wd)
	}

	return DoctorSchedule{
		DoctorID:                   doctorID,
		WorkingDays:                workingDays,
		AppointmentDurationMinutes: 15,
		MaxAppointmentsPerDay:      20,
	}
}

// WorkingDayFor возвращает настройку для указанного дня недели
func (s DoctorSchedule) WorkingDayFor(day Weekday) (WorkingDay, bool) {
	for _, wd := range s.WorkingDays {
		if wd.Day == day {
			return wd, true
		}
	}
	return WorkingDay{}, false
}

// Validate проверяет конфигурацию расписания перед сохранением.
// Все ошибки оборачивают ErrMalformedInput - это ошибки вызывающей стороны, а не бизнес-отказы.
func (s DoctorSchedule) Validate() error {
	if s.AppointmentDurationMinutes < MinAppointmentDuration || s.AppointmentDurationMinutes > MaxAppointmentDuration {
		return fmt.Errorf("%w: appointment duration must be between %d and %d minutes",
			ErrMalformedInput, MinAppointmentDuration, MaxAppointmentDuration)
	}

	if s.MaxAppointmentsPerDay < MinAppointmentsPerDay || s.MaxAppointmentsPerDay > MaxAppointmentsPerDayLimit {
		return fmt.Errorf("%w: maximum appointments per day must be between %d and %d",
			ErrMalformedInput, MinAppointmentsPerDay, MaxAppointmentsPerDayLimit)
	}

	// Расписание должно содержать все дни недели ровно по одному разу
	seen := make(map[Weekday]bool, len(AllWeekdays))
	for _, wd := range s.WorkingDays {
		if _, known := WeekdayIndex(wd.Day); !known {
			return fmt.Errorf("%w: unknown weekday %q", ErrMalformedInput, wd.Day)
		}
		if seen[wd.Day] {
			return fmt.Errorf("%w: duplicate weekday %q", ErrMalformedInput, wd.Day)
		}
		seen[wd.Day] = true
	}
	if len(seen) != len(AllWeekdays) {
		return fmt.Errorf("%w: schedule must include all days of the week", ErrMalformedInput)
	}

	for _, wd := range s.WorkingDays {
		if !wd.IsWorking {
			continue
		}

		if !wd.StartTime.Before(wd.EndTime) {
			return fmt.Errorf("%w: %s: start time %s must be before end time %s",
				ErrMalformedInput, wd.Day, wd.StartTime, wd.EndTime)
		}

		if wd.BreakStart != nil || wd.BreakEnd != nil {
			if !wd.HasBreak() {
				return fmt.Errorf("%w: %s: break window must have both start and end", ErrMalformedInput, wd.Day)
			}
			if !(*wd.BreakStart).Before(*wd.BreakEnd) {
				return fmt.Errorf("%w: %s: break start %s must be before break end %s",
					ErrMalformedInput, wd.Day, *wd.BreakStart, *wd.BreakEnd)
			}
			if (*wd.BreakStart).Before(wd.StartTime) || wd.EndTime.Before(*wd.BreakEnd) {
				return fmt.Errorf("%w: %s: break window must be inside working hours", ErrMalformedInput, wd.Day)
			}
		}
	}

	return nil
}

// WeekdayIndex возвращает позицию дня недели в AllWeekdays
func WeekdayIndex(day Weekday) (int, bool) {
	for i, d := range AllWeekdays {
		if d == day {
			return i, true
		}
	}
	return 0, false
}
