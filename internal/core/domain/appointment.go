package domain

import (
	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// OccupiesSlot сообщает, занимает ли запись с таким статусом слот.
// Отмененные записи слот освобождают.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != AppointmentStatusCancelled
}

// Appointment - запись на прием. Планировщик ее не создает и не изменяет,
// только читает для определения занятости слотов и проверяет переходы статусов.
type Appointment struct {
	ID        uuid.UUID            `json:"id"`
	DoctorID  uuid.UUID            `json:"doctorId"`
	PatientID uuid.UUID            `json:"patientId"`
	Date      json_types.Date      `json:"date"`
	Time      json_types.ClockTime `json:"time"`
	Status    AppointmentStatus    `json:"status"`
}
