package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/domain"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

const (
	schedulesCollection    = "schedules"
	appointmentsCollection = "appointments"
)

// MongoStoreAdapter читает документное хранилище бэкенда госпиталя напрямую.
// Используется в колокейтед-развертываниях вместо похода в REST API.
type MongoStoreAdapter struct {
	schedules    *mongo.Collection
	appointments *mongo.Collection
	logger       out.LoggerPort
}

func NewMongoStoreAdapter(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (*MongoStoreAdapter, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Store.Mongo.URI))
	if err != nil {
		logger.Error("mongo.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		logger.Error("mongo.ping.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	db := client.Database(cfg.Store.Mongo.Database)

	return &MongoStoreAdapter{
		schedules:    db.Collection(schedulesCollection),
		appointments: db.Collection(appointmentsCollection),
		logger:       logger,
	}, nil
}

// scheduleDocument - документ расписания в том виде, в котором его хранит бэкенд
type scheduleDocument struct {
	DoctorID              string               `bson:"doctor"`
	WorkingDays           []workingDayDocument `bson:"workingDays"`
	AppointmentDuration   int                  `bson:"appointmentDuration"`
	MaxAppointmentsPerDay int                  `bson:"maxAppointmentsPerDay"`
	UpdatedAt             time.Time            `bson:"updatedAt"`
}

type workingDayDocument struct {
	Day        string  `bson:"day"`
	IsWorking  bool    `bson:"isWorking"`
	StartTime  string  `bson:"startTime,omitempty"`
	EndTime    string  `bson:"endTime,omitempty"`
	BreakStart *string `bson:"breakStart,omitempty"`
	BreakEnd   *string `bson:"breakEnd,omitempty"`
}

type appointmentDocument struct {
	ID       string `bson:"_id"`
	DoctorID string `bson:"doctor"`
	Patient  string `bson:"patient"`
	Date     string `bson:"date"`
	Time     string `bson:"time"`
	Status   string `bson:"status"`
}

func (a *MongoStoreAdapter) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	var doc scheduleDocument
	err := a.schedules.FindOne(ctx, bson.M{"doctor": doctorID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrScheduleNotFound
		}
		a.logger.Error("mongo.schedule.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	schedule, err := doc.toDomain(doctorID)
	if err != nil {
		a.logger.Error("mongo.schedule.decode_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	return schedule, nil
}

func (a *MongoStoreAdapter) SaveDoctorSchedule(ctx context.Context, schedule domain.DoctorSchedule) error {
	doc := toScheduleDocument(schedule)

	opts := options.Replace().SetUpsert(true)
	_, err := a.schedules.ReplaceOne(ctx, bson.M{"doctor": schedule.DoctorID.String()}, doc, opts)
	if err != nil {
		a.logger.Error("mongo.schedule.save_failed", out.LogFields{
			"doctorId": schedule.DoctorID,
			"error":    err.Error(),
		})
		return err
	}

	return nil
}

func (a *MongoStoreAdapter) GetDayAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error) {
	filter := bson.M{
		"doctor": doctorID.String(),
		"date":   date.String(),
	}

	cursor, err := a.appointments.Find(ctx, filter)
	if err != nil {
		a.logger.Error("mongo.appointments.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, err
	}

	var docs []appointmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		a.logger.Error("mongo.appointments.iterate_failed", out.LogFields{
			"doctorId": doctorID,
			"date":     date,
			"error":    err.Error(),
		})
		return nil, err
	}

	appointments := make([]domain.Appointment, 0, len(docs))
	for _, doc := range docs {
		appointment, err := doc.toDomain()
		if err != nil {
			a.logger.Error("mongo.appointments.decode_failed", out.LogFields{
				"appointmentId": doc.ID,
				"error":         err.Error(),
			})
			return nil, err
		}
		appointments = append(appointments, *appointment)
	}

	return appointments, nil
}

func (a *MongoStoreAdapter) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	var doc appointmentDocument
	err := a.appointments.FindOne(ctx, bson.M{"_id": appointmentID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	return doc.toDomain()
}

func (doc scheduleDocument) toDomain(doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	workingDays := make([]domain.WorkingDay, 0, len(doc.WorkingDays))
	for _, wd := range doc.WorkingDays {
		workingDay := domain.WorkingDay{
			Day:       domain.Weekday(wd.Day),
			IsWorking: wd.IsWorking,
		}

		if wd.IsWorking {
			startTime, err := json_types.ParseClockTime(wd.StartTime)
			if err != nil {
				return nil, err
			}
			endTime, err := json_types.ParseClockTime(wd.EndTime)
			if err != nil {
				return nil, err
			}
			workingDay.StartTime = startTime
			workingDay.EndTime = endTime
		}

		if wd.BreakStart != nil && wd.BreakEnd != nil {
			breakStart, err := json_types.ParseClockTime(*wd.BreakStart)
			if err != nil {
				return nil, err
			}
			breakEnd, err := json_types.ParseClockTime(*wd.BreakEnd)
			if err != nil {
				return nil, err
			}
			workingDay.BreakStart = &breakStart
			workingDay.BreakEnd = &breakEnd
		}

		workingDays = append(workingDays, workingDay)
	}

	return &domain.DoctorSchedule{
		DoctorID:                   doctorID,
		WorkingDays:                workingDays,
		AppointmentDurationMinutes: doc.AppointmentDuration,
		MaxAppointmentsPerDay:      doc.MaxAppointmentsPerDay,
	}, nil
}

func toScheduleDocument(schedule domain.DoctorSchedule) scheduleDocument {
	workingDays := make([]workingDayDocument, 0, len(schedule.WorkingDays))
	for _, wd := range schedule.WorkingDays {
		doc := workingDayDocument{
			Day:       string(wd.Day),
			IsWorking: wd.IsWorking,
		}
		if wd.IsWorking {
			doc.StartTime = wd.StartTime.String()
			doc.EndTime = wd.EndTime.String()
		}
		if wd.HasBreak() {
			breakStart := wd.BreakStart.String()
			breakEnd := wd.BreakEnd.String()
			doc.BreakStart = &breakStart
			doc.BreakEnd = &breakEnd
		}
		workingDays = append(workingDays, doc)
	}

	return scheduleDocument{
		DoctorID:              schedule.DoctorID.String(),
		WorkingDays:           workingDays,
		AppointmentDuration:   schedule.AppointmentDurationMinutes,
		MaxAppointmentsPerDay: schedule.MaxAppointmentsPerDay,
		UpdatedAt:             time.Now(),
	}
}

func (doc appointmentDocument) toDomain() (*domain.Appointment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, err
	}
	doctorID, err := uuid.Parse(doc.DoctorID)
	if err != nil {
		return nil, err
	}
	patientID, err := uuid.Parse(doc.Patient)
	if err != nil {
		return nil, err
	}
	date, err := json_types.ParseDate(doc.Date)
	if err != nil {
		return nil, err
	}
	tm, err := json_types.ParseClockTime(doc.Time)
	if err != nil {
		return nil, err
	}

	return &domain.Appointment{
		ID:        id,
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Time:      tm,
		Status:    domain.AppointmentStatus(doc.Status),
	}, nil
}
