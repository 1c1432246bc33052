package mq_client

import (
	"github.com/streadway/amqp"
)

var AMQPChannel *amqp.Channel
var Connection *amqp.Connection

func Connect() error {
	cn, err := CreateAMQP()
	if err != nil {
		return err
	}

	Connection = cn

	return nil
}

func GetChannel() *amqp.Channel {
	if AMQPChannel != nil {
		return AMQPChannel
	} else {
		channel, _ := Connection.Channel()

		AMQPChannel = channel

		return AMQPChannel
	}
}

// EnqueueEvent publishes an audit/notification event. The sink is
// fire-and-forget: a dead broker never fails the financial outcome.
func EnqueueEvent(kind string, id string, event string, payload []byte) error {
	if Connection == nil {
		return nil
	}

	routing_key := kind + "." + id + "." + event

	GetChannel().ExchangeDeclare("mutuo.events.member", "topic", false, false, false, false, nil)

	return GetChannel().Publish(
		"mutuo.events.member",
		routing_key,
		false,
		false,
		amqp.Publishing{
			Headers:         amqp.Table{},
			ContentType:     "application/json",
			ContentEncoding: "",
			Body:            payload,
			DeliveryMode:    amqp.Persistent, // 1=non-persistent, 2=persistent
			Priority:        0,               // 0-9
		},
	)
}
