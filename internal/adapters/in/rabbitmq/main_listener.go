package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/in"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

// ChangeListener слушает события изменения записей и расписаний из бэкенда
// госпиталя и сбрасывает соответствующие дни в кэше слотов
type ChangeListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.SlotSchedulerUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	ChangeType   string
	ResourceType string
)

const (
	ResourceTypeAll         ResourceType = "_all_"
	ResourceTypeAppointment ResourceType = "appointment"
	ResourceTypeSchedule    ResourceType = "schedule"
)

const (
	ChangeTypeStore      ChangeType = "store"
	ChangeTypeInvalidate ChangeType = "invalidate"
)

type ChangeMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType ResourceType
	ChangeType   ChangeType
}

func NewChangeListener(useCase in.SlotSchedulerUseCase, cfg *config.Config, logger out.LoggerPort) (*ChangeListener, error) {
	if !cfg.RabbitMq.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMq.AmqpUri)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMq.AmqpUri,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &ChangeListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *ChangeListener) Start(ctx context.Context) error {
	if err := l.startAppointmentQueue(ctx); err != nil {
		return err
	}
	l.logger.Info("appointment.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.AppointmentQueueName,
	})

	if err := l.startScheduleQueue(ctx); err != nil {
		return err
	}
	l.logger.Info("schedule.queue.started", out.LogFields{
		"queue": l.cfg.RabbitMq.QueueConfig.ScheduleQueueName,
	})

	return nil
}

func (l *ChangeListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// hms.slot-scheduler.appointment.<id>.store
// hms.slot-scheduler.appointment.<id>.invalidate
// hms.slot-scheduler.schedule.<id>.invalidate
// hms.slot-scheduler._all_.<id>.invalidate
func (l *ChangeListener) parseChangeMessageRoutingKey(msg amqp.Delivery) (ChangeMessageRoutingKey, error) {
	routingKey := msg.RoutingKey
	parts := strings.Split(routingKey, ".")

	if len(parts) < 5 {
		return ChangeMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return ChangeMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: ResourceType(parts[2]),
		ChangeType:   ChangeType(parts[4]),
	}, nil
}
