package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// ConsumerConfig locates the broker and names the queue and reply exchange.
type ConsumerConfig struct {
	URL           string
	Queue         string
	ReplyExchange string
	Concurrency   int
}

// Consumer runs a pool of workers, each with its own channel.
type Consumer struct {
	cfg     ConsumerConfig
	handler *Handler
	logger  *slog.Logger
}

// NewConsumer creates a consumer for cfg.
func NewConsumer(cfg ConsumerConfig, handler *Handler, logger *slog.Logger) (c *Consumer) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	c = &Consumer{cfg: cfg, handler: handler, logger: logger}
	return c
}

// amqpPublisher publishes outcomes on one channel. Channels are not shared between workers.
type amqpPublisher struct {
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(_ context.Context, routingKey string, body []byte) (err error) {
	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	return err
}

// Run consumes until ctx is cancelled or the connection drops.
func (c *Consumer) Run(ctx context.Context) (err error) {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		err = errors.Wrap(err, "error dialling rabbitmq")
		return err
	}
	defer conn.Close()

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	errCh := make(chan error, c.cfg.Concurrency)
	var wg sync.WaitGroup
	wg.Add(c.cfg.Concurrency)

	for i := range c.cfg.Concurrency {
		go func(id int) {
			defer wg.Done()
			workerErr := c.work(ctx, conn, id)
			if workerErr != nil {
				errCh <- workerErr
			}
		}(i + 1)
	}

	c.logger.Info("worker pool started",
		slog.Int("workers", c.cfg.Concurrency),
		slog.String("queue", c.cfg.Queue),
	)

	select {
	case <-ctx.Done():
	case amqpErr := <-closed:
		if amqpErr != nil {
			err = errors.Wrap(amqpErr, "rabbitmq connection closed")
		}
	case err = <-errCh:
	}

	_ = conn.Close()
	wg.Wait()

	c.logger.Info("worker pool stopped")
	return err
}

func (c *Consumer) work(ctx context.Context, conn *amqp.Connection, id int) (err error) {
	ch, err := conn.Channel()
	if err != nil {
		err = errors.Wrapf(err, "worker %d: error opening channel", id)
		return err
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		c.cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		err = errors.Wrapf(err, "worker %d: failed to declare queue %s", id, c.cfg.Queue)
		return err
	}

	err = ch.ExchangeDeclare(
		c.cfg.ReplyExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		err = errors.Wrapf(err, "worker %d: failed to declare exchange %s", id, c.cfg.ReplyExchange)
		return err
	}

	err = ch.Qos(1, 0, false)
	if err != nil {
		err = errors.Wrapf(err, "worker %d: failed to set prefetch", id)
		return err
	}

	msgs, err := ch.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		err = errors.Wrapf(err, "worker %d: error consuming queue %s", id, c.cfg.Queue)
		return err
	}

	publisher := &amqpPublisher{ch: ch, exchange: c.cfg.ReplyExchange}

	for {
		select {
		case <-ctx.Done():
			return err
		case msg, ok := <-msgs:
			if !ok {
				return err
			}

			outcome, deliverErr := c.handler.Deliver(ctx, publisher, msg.Body)
			if deliverErr != nil {
				c.logger.Error("failed to publish outcome", slog.Int("worker", id), slog.Any("error", deliverErr))
			} else {
				c.logger.Info("job processed",
					slog.Int("worker", id),
					slog.String("id", outcome.ID),
					slog.String("status", outcome.Status),
				)
			}

			ackErr := msg.Ack(false)
			if ackErr != nil {
				c.logger.Warn("failed to ack message", slog.Int("worker", id), slog.Any("error", ackErr))
			}
		}
	}
}
