package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

type ScheduleChangeMessage struct {
	DoctorID uuid.UUID `json:"doctorId"`
}

func (l *ChangeListener) startScheduleQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.ScheduleQueueName,
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
		l.cfg.RabbitMq.QueueConfig.ScheduleQueueBind,
		l.cfg.RabbitMq.QueueConfig.ScheduleQueueExchange,
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
				if err := l.processScheduleMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *ChangeListener) processScheduleMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseChangeMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	// Если поменялось вообще все, сбрасываем кэш целиком
	if routingKey.ResourceType == ResourceTypeAll {
		l.useCase.InvalidateAllSlots(ctx)

		l.logger.Info("_all_.message.invalidated", out.LogFields{
			"slots_cache": true,
		})
		return nil
	}

	if routingKey.ResourceType != ResourceTypeSchedule {
		return nil
	}

	var msgJson ScheduleChangeMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("schedule.message.received", out.LogFields{
		"doctorId":   msgJson.DoctorID,
		"changeType": routingKey.ChangeType,
	})

	// Изменение расписания обесценивает все закэшированные дни врача
	l.useCase.InvalidateDoctorSlots(ctx, msgJson.DoctorID)

	return nil
}
