package config

import "github.com/caarlos0/env/v10"

type Config struct {
	KafkaBrokers      []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	NotificationTopic string   `env:"NOTIFICATION_TOPIC" envDefault:"payment.notifications"`
	ConsumerGroup     string   `env:"CONSUMER_GROUP" envDefault:"notification-service"`
	RedisAddr         string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	FromAddress       string   `env:"FROM_ADDRESS" envDefault:"no-reply@fulfillment.local"`
	OTLPEndpoint      string   `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
