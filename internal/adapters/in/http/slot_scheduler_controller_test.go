package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUseCase позволяет подставить ответ каждой операции из теста
type stubUseCase struct {
	getScheduleFn        func(ctx context.Context, doctorID uuid.UUID) (domain.DoctorSchedule, error)
	updateScheduleFn     func(ctx context.Context, schedule domain.DoctorSchedule) error
	getDaySlotsFn        func(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, error)
	validateBookingFn    func(ctx context.Context, doctorID uuid.UUID, date json_types.Date, tm json_types.ClockTime) error
	validateRescheduleFn func(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newTime json_types.ClockTime) error
	validateTransitionFn func(ctx context.Context, appointmentID uuid.UUID, requested domain.AppointmentStatus) error
}

func (s *stubUseCase) GetSchedule(ctx context.Context, doctorID uuid.UUID) (domain.DoctorSchedule, error) {
	return s.getScheduleFn(ctx, doctorID)
}

func (s *stubUseCase) UpdateSchedule(ctx context.Context, schedule domain.DoctorSchedule) error {
	return s.updateScheduleFn(ctx, schedule)
}

func (s *stubUseCase) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Slot, error) {
	return s.getDaySlotsFn(ctx, doctorID, date)
}

func (s *stubUseCase) ValidateBooking(ctx context.Context, doctorID uuid.UUID, date json_types.Date, tm json_types.ClockTime) error {
	return s.validateBookingFn(ctx, doctorID, date, tm)
}

func (s *stubUseCase) ValidateReschedule(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newTime json_types.ClockTime) error {
	return s.validateRescheduleFn(ctx, appointmentID, newDate, newTime)
}

func (s *stubUseCase) ValidateStatusTransition(ctx context.Context, appointmentID uuid.UUID, requested domain.AppointmentStatus) error {
	return s.validateTransitionFn(ctx, appointmentID, requested)
}

func (s *stubUseCase) InvalidateDaySlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) {
}
func (s *stubUseCase) InvalidateDoctorSlots(ctx context.Context, doctorID uuid.UUID) {}
func (s *stubUseCase) InvalidateAllSlots(ctx context.Context)                        {}

func newTestRouter(useCase *stubUseCase) *gin.Engine {
	cfg := &config.Config{}
	cfg.Auth.BasicClients = []config.ConfigBasicClient{
		{Username: "scheduler", Password: "secret"},
	}

	router := gin.New()
	controller := NewSlotSchedulerController(useCase, cfg)
	controller.RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.SetBasicAuth("scheduler", "secret")
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSlotSchedulerController(t *testing.T) {
	doctorID := uuid.New()
	appointmentID := uuid.New()

	t.Run("Rejects Request Without Credentials", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/"+doctorID.String()+"/2025-06-02", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Rejects Wrong Credentials", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/"+doctorID.String()+"/2025-06-02", nil)
		req.SetBasicAuth("scheduler", "wrong")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Returns Day Slots", func(t *testing.T) {
		useCase := &stubUseCase{
			getDaySlotsFn: func(ctx context.Context, id uuid.UUID, date json_types.Date) ([]domain.Slot, error) {
				assert.Equal(t, doctorID, id)
				assert.Equal(t, "2025-06-02", date.String())
				return []domain.Slot{
					{Time: json_types.NewClockTime(9, 0), IsAvailable: true},
					{Time: json_types.NewClockTime(10, 0), IsAvailable: false, Reason: domain.SlotReasonBooked},
				}, nil
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodGet, "/api/v1/slots/"+doctorID.String()+"/2025-06-02", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response struct {
			Slots []domain.Slot `json:"slots"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response.Slots, 2)
		assert.Equal(t, "09:00", response.Slots[0].Time.String())
		assert.Equal(t, domain.SlotReasonBooked, response.Slots[1].Reason)
	})

	t.Run("Rejects Malformed Date In Path", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})

		recorder := doRequest(router, http.MethodGet, "/api/v1/slots/"+doctorID.String()+"/02.06.2025", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Unavailable Slot Maps To Conflict", func(t *testing.T) {
		useCase := &stubUseCase{
			validateBookingFn: func(ctx context.Context, id uuid.UUID, date json_types.Date, tm json_types.ClockTime) error {
				return &domain.SlotUnavailableError{Reason: domain.SlotReasonBooked}
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost, "/api/v1/bookings/validate", gin.H{
			"doctorId": doctorID.String(),
			"date":     "2025-06-02",
			"time":     "10:00",
		})

		assert.Equal(t, http.StatusConflict, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "slot-unavailable", response["code"])
		assert.Equal(t, "booked", response["reason"])
	})

	t.Run("Past Date Maps To Unprocessable Entity", func(t *testing.T) {
		useCase := &stubUseCase{
			validateBookingFn: func(ctx context.Context, id uuid.UUID, date json_types.Date, tm json_types.ClockTime) error {
				return domain.ErrPastDate
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost, "/api/v1/bookings/validate", gin.H{
			"doctorId": doctorID.String(),
			"date":     "2025-06-01",
			"time":     "10:00",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "past-date", response["code"])
	})

	t.Run("Valid Booking Returns Ok", func(t *testing.T) {
		useCase := &stubUseCase{
			validateBookingFn: func(ctx context.Context, id uuid.UUID, date json_types.Date, tm json_types.ClockTime) error {
				return nil
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost, "/api/v1/bookings/validate", gin.H{
			"doctorId": doctorID.String(),
			"date":     "2025-06-02",
			"time":     "10:00",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Illegal Transition Carries Both Statuses", func(t *testing.T) {
		useCase := &stubUseCase{
			validateTransitionFn: func(ctx context.Context, id uuid.UUID, requested domain.AppointmentStatus) error {
				return &domain.IllegalTransitionError{
					Current:   domain.AppointmentStatusCompleted,
					Requested: domain.AppointmentStatusInProgress,
				}
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost,
			"/api/v1/appointments/"+appointmentID.String()+"/transitions/validate",
			gin.H{"requestedStatus": "in-progress"})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "illegal-transition", response["code"])
		assert.Equal(t, "completed", response["currentStatus"])
		assert.Equal(t, "in-progress", response["requestedStatus"])
	})

	t.Run("Reschedule Of Completed Appointment Is Rejected", func(t *testing.T) {
		useCase := &stubUseCase{
			validateRescheduleFn: func(ctx context.Context, id uuid.UUID, newDate json_types.Date, newTime json_types.ClockTime) error {
				return domain.ErrTerminalAppointment
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost, "/api/v1/bookings/validate-reschedule", gin.H{
			"appointmentId": appointmentID.String(),
			"newDate":       "2025-06-02",
			"newTime":       "10:00",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "terminal-appointment", response["code"])
	})

	t.Run("Unknown Appointment Maps To Not Found", func(t *testing.T) {
		useCase := &stubUseCase{
			validateTransitionFn: func(ctx context.Context, id uuid.UUID, requested domain.AppointmentStatus) error {
				return domain.ErrAppointmentNotFound
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPost,
			"/api/v1/appointments/"+appointmentID.String()+"/transitions/validate",
			gin.H{"requestedStatus": "cancelled"})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Update Schedule Validation Error Maps To Bad Request", func(t *testing.T) {
		useCase := &stubUseCase{
			updateScheduleFn: func(ctx context.Context, schedule domain.DoctorSchedule) error {
				return domain.DoctorSchedule{AppointmentDurationMinutes: 0, MaxAppointmentsPerDay: 1}.Validate()
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodPut, "/api/v1/schedules/"+doctorID.String(),
			domain.DefaultSchedule(doctorID))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "malformed-input", response["code"])
	})

	t.Run("Get Schedule Returns Document", func(t *testing.T) {
		schedule := domain.DefaultSchedule(doctorID)
		useCase := &stubUseCase{
			getScheduleFn: func(ctx context.Context, id uuid.UUID) (domain.DoctorSchedule, error) {
				return schedule, nil
			},
		}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodGet, "/api/v1/schedules/"+doctorID.String(), nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response domain.DoctorSchedule
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, schedule.DoctorID, response.DoctorID)
		assert.Len(t, response.WorkingDays, 7)
	})
}
