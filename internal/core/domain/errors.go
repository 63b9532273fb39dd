package domain

import (
	"errors"
	"fmt"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

// Ошибки бизнес-правил планировщика. Все они - отказы по входным данным
// вызывающей стороны, а не системные сбои: наружу отдаются как есть,
// без повторов и без логирования-с-проглатыванием.
var (
	// ErrInvalidSlot - запрошенное время не входит в список слотов на эту дату
	ErrInvalidSlot = errors.New("requested time is not a valid slot")

	// ErrSlotUnavailable - слот существует, но недоступен (см. SlotUnavailableError)
	ErrSlotUnavailable = errors.New("slot is unavailable")

	// ErrPastDate - дата строго раньше текущей
	ErrPastDate = errors.New("date is in the past")

	// ErrIllegalTransition - переход статуса не разрешен таблицей переходов
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrTerminalAppointment - завершенную запись нельзя перенести
	ErrTerminalAppointment = errors.New("completed appointment cannot be rescheduled")

	// ErrScheduleNotFound - у врача нет сохраненного расписания
	ErrScheduleNotFound = errors.New("doctor schedule not found")

	// ErrAppointmentNotFound - запись на прием не найдена во внешнем хранилище
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// ErrMalformedInput - нераспарсиваемый вход (кривое время, неизвестный статус).
// Позволяет вызывающей стороне отличить ошибку программиста от бизнес-отказа.
var ErrMalformedInput = json_types.ErrMalformedInput

// SlotUnavailableError несет причину недоступности слота
type SlotUnavailableError struct {
	Reason SlotUnavailableReason
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot is unavailable: %s", e.Reason)
}

func (e *SlotUnavailableError) Is(target error) bool {
	return target == ErrSlotUnavailable
}

// IllegalTransitionError несет текущий и запрошенный статусы для диагностики
type IllegalTransitionError struct {
	Current   AppointmentStatus
	Requested AppointmentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.Current, e.Requested)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
