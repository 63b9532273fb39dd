package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/json_types"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

// AppointmentChangeMessage - событие изменения записи на прием.
// Для сброса кэша достаточно знать врача и дату: день пересчитывается целиком,
// точечные патчи не дружат с правилом day-full.
type AppointmentChangeMessage struct {
	AppointmentID uuid.UUID       `json:"appointmentId"`
	DoctorID      uuid.UUID       `json:"doctorId"`
	Date          json_types.Date `json:"date"`
}

func (l *ChangeListener) startAppointmentQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueBind,
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processAppointmentMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *ChangeListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseChangeMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	if routingKey.ResourceType != ResourceTypeAppointment {
		return nil
	}

	var msgJson AppointmentChangeMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"appointmentId": msgJson.AppointmentID,
		"doctorId":      msgJson.DoctorID,
		"date":          msgJson.Date,
		"changeType":    routingKey.ChangeType,
	})

	// И store, и invalidate сбрасывают день: занятость пересчитается при следующем запросе
	l.useCase.InvalidateDaySlots(ctx, msgJson.DoctorID, msgJson.Date)

	return nil
}
