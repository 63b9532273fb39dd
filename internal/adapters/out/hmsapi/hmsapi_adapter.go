package hmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

// HmsApiAdapter ходит в REST API бэкенда госпиталя, который владеет
// расписаниями и записями на прием
type HmsApiAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewHmsApiAdapter(cfg *config.Config, logger out.LoggerPort) *HmsApiAdapter {
	return &HmsApiAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  cfg.Store.HmsAPI.URL,
		username: cfg.Store.HmsAPI.Username,
		password: cfg.Store.HmsAPI.Password,
		logger:   logger,
	}
}

func (a *HmsApiAdapter) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	a.logger.Info("hmsapi.schedule.fetch", out.LogFields{
		"doctorId": doctorID,
	})

	url := fmt.Sprintf("%s/api/schedules/doctor/%s", a.baseURL, doctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("hmsapi.schedule.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrScheduleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Error("hmsapi.schedule.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var schedule domain.DoctorSchedule
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		a.logger.Error("hmsapi.schedule.decode_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	return &schedule, nil
}

func (a *HmsApiAdapter) SaveDoctorSchedule(ctx context.Context, schedule domain.DoctorSchedule) error {
	body, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/schedules/doctor/%s", a.baseURL, schedule.DoctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("hmsapi.schedule.save_failed", out.LogFields{
			"doctorId": schedule.DoctorID,
			"error":    err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		a.logger.Error("hmsapi.schedule.save_failed", out.LogFields{
			"doctorId": schedule.DoctorID,
			"status":   resp.StatusCode,
		})
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (a *HmsApiAdapter) GetDayAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error) {
	url := fmt.Sprintf("%s/api/appointments/doctor/%s", a.baseURL, doctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("date", date.String())
	req.URL.RawQuery = query.Encode()

	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("hmsapi.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("hmsapi.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"status":   resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var appointments []domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointments); err != nil {
		a.logger.Error("hmsapi.appointments.decode_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("hmsapi.appointments.fetch_success", out.LogFields{
		"doctorId": doctorID,
		"date":     date,
		"count":    len(appointments),
	})

	return appointments, nil
}

func (a *HmsApiAdapter) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	url := fmt.Sprintf("%s/api/appointments/%s", a.baseURL, appointmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrAppointmentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var appointment domain.Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		return nil, err
	}

	return &appointment, nil
}
