package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/bank/shared/logger"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Handler func(ctx context.Context, event Event) error

// Subscriber consumes one stream until ctx is cancelled. Events whose
// handler fails are not acknowledged.
type Subscriber interface {
	Start(ctx context.Context) error
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

func (c *SubscriberConfig) applyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = 10
	}
	if c.BlockDuration == 0 {
		c.BlockDuration = 5 * time.Second
	}
}

// RedisSubscriber reads a Redis Stream through a consumer group.
type RedisSubscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
}

func NewRedisSubscriber(client *redis.Client, config SubscriberConfig) *RedisSubscriber {
	config.applyDefaults()

	return &RedisSubscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
	}
}

func (s *RedisSubscriber) Start(ctx context.Context) error {
	// Create consumer group if it doesn't exist
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger.Info("subscriber started", logger.Fields{"stream": s.stream, "group": s.group, "consumer": s.consumer})

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscriber stopping", logger.Fields{"stream": s.stream})
			return ctx.Err()
		default:
			if err := s.readMessages(ctx); err != nil && ctx.Err() == nil {
				logger.Error("error reading messages", err, logger.Fields{"stream": s.stream})
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *RedisSubscriber) readMessages(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return nil // No messages
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.processMessage(ctx, message); err != nil {
				logger.Error("failed to process message", err, logger.Fields{"stream": s.stream, "messageId": message.ID})
				// Don't ACK failed messages - they'll be retried
				continue
			}

			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				logger.Error("failed to ack message", err, logger.Fields{"stream": s.stream, "messageId": message.ID})
			}
		}
	}

	return nil
}

func (s *RedisSubscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	event, err := decodeEvent([]byte(eventData))
	if err != nil {
		return err
	}
	return s.handler(ctx, event)
}

// KafkaSubscriber reads a topic as a member of a Kafka consumer group.
// Offsets are committed only after the handler succeeds.
type KafkaSubscriber struct {
	reader  *kafka.Reader
	stream  string
	handler Handler
}

func NewKafkaSubscriber(brokers []string, config SubscriberConfig) *KafkaSubscriber {
	config.applyDefaults()

	return &KafkaSubscriber{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  config.Group,
			Topic:    config.Stream,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  config.BlockDuration,
		}),
		stream:  config.Stream,
		handler: config.Handler,
	}
}

func (s *KafkaSubscriber) Start(ctx context.Context) error {
	defer s.reader.Close()
	logger.Info("subscriber started", logger.Fields{"stream": s.stream, "broker": "kafka"})

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("subscriber stopping", logger.Fields{"stream": s.stream})
				return ctx.Err()
			}
			logger.Error("error reading messages", err, logger.Fields{"stream": s.stream})
			time.Sleep(time.Second)
			continue
		}

		if err := s.processMessage(ctx, msg); err != nil {
			logger.Error("failed to process message", err, logger.Fields{"stream": s.stream, "offset": msg.Offset})
			continue
		}
		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("failed to commit message", err, logger.Fields{"stream": s.stream, "offset": msg.Offset})
		}
	}
}

func (s *KafkaSubscriber) processMessage(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent(msg.Value)
	if err != nil {
		return err
	}
	return s.handler(ctx, event)
}
