package mq_client

import (
	"io/ioutil"
	"os"

	"github.com/streadway/amqp"
	"gopkg.in/yaml.v2"
)

var AMQPCfg *MQClientConfig

func CreateAMQP() (*amqp.Connection, error) {
	if err := LoadConfig(); err != nil {
		return nil, err
	}

	rabbitmq_username := os.Getenv("RABBITMQ_USERNAME")
	rabbitmq_password := os.Getenv("RABBITMQ_PASSWORD")
	rabbitmq_host := os.Getenv("RABBITMQ_HOST")
	rabbitmq_port := os.Getenv("RABBITMQ_PORT")

	connection, err := amqp.Dial("amqp://" + rabbitmq_username + ":" + rabbitmq_password + "@" + rabbitmq_host + ":" + rabbitmq_port)
	if err != nil {
		return nil, err
	}

	return connection, nil
}

func LoadConfig() error {
	buf, err := ioutil.ReadFile("config/amqp.yml")

	if err != nil {
		return err
	}

	c := &MQClientConfig{}

	err = yaml.Unmarshal(buf, c)

	if err != nil {
		return err
	}

	AMQPCfg = c

	return nil
}
