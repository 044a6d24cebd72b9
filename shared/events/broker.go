package events

import (
	"fmt"

	"github.com/ledgerline/bank/shared/config"
	"github.com/redis/go-redis/v9"
)

const (
	BrokerRedis = "redis"
	BrokerKafka = "kafka"
	BrokerNone  = "none"
)

// NewPublisher picks the publisher for cfg.Broker. The Redis broker needs a
// client; pass nil otherwise.
func NewPublisher(cfg config.EventsConfig, client *redis.Client) (Publisher, error) {
	switch cfg.Broker {
	case BrokerRedis:
		if client == nil {
			return nil, fmt.Errorf("event broker %q requires REDIS_ADDR", cfg.Broker)
		}
		return NewRedisPublisher(client), nil
	case BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("event broker %q requires KAFKA_BROKERS", cfg.Broker)
		}
		return NewKafkaPublisher(cfg.KafkaBrokers), nil
	case BrokerNone, "":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unsupported event broker %q", cfg.Broker)
	}
}

// NewSubscriber picks the subscriber for cfg.Broker. It returns nil, nil when
// events are disabled.
func NewSubscriber(cfg config.EventsConfig, client *redis.Client, sub SubscriberConfig) (Subscriber, error) {
	switch cfg.Broker {
	case BrokerRedis:
		if client == nil {
			return nil, fmt.Errorf("event broker %q requires REDIS_ADDR", cfg.Broker)
		}
		return NewRedisSubscriber(client, sub), nil
	case BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("event broker %q requires KAFKA_BROKERS", cfg.Broker)
		}
		return NewKafkaSubscriber(cfg.KafkaBrokers, sub), nil
	case BrokerNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported event broker %q", cfg.Broker)
	}
}
