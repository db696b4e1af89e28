package mq

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/pkg/logger"
)

var (
	conn     *amqp.Connection
	connMu   sync.RWMutex
	initOnce sync.Once
	initErr  error
)

// Topology 交换机与队列声明
type Topology struct {
	Exchange   string
	Queue      string
	BindingKey string
}

// OnboardingTopology 引导会话事件：topic 交换机，队列绑定 onboarding.#
func OnboardingTopology() Topology {
	return Topology{
		Exchange:   config.Cfg.EventsExchange,
		Queue:      config.Cfg.EventsQueue,
		BindingKey: "onboarding.#",
	}
}

func Init() error {
	initOnce.Do(func() {
		c, err := amqp.Dial(config.Cfg.GetRabbitMQURL())
		if err != nil {
			initErr = fmt.Errorf("failed to dial rabbitmq: %w", err)
			return
		}

		if err := Declare(c, OnboardingTopology()); err != nil {
			_ = c.Close()
			initErr = err
			return
		}

		connMu.Lock()
		conn = c
		connMu.Unlock()

		logger.Logger.Info("RabbitMQ connected",
			zap.String("component", "rabbitmq"),
			zap.String("exchange", config.Cfg.EventsExchange),
		)
	})

	return initErr
}

// Declare 声明持久化的 topic 交换机、队列以及绑定
func Declare(c *amqp.Connection, t Topology) error {
	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(t.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", t.Exchange, err)
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.BindingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", t.Queue, err)
	}
	return nil
}

func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

func Close() error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	conn = nil
	return err
}
