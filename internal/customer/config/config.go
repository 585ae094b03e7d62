package config

import "github.com/caarlos0/env/v10"

type Config struct {
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8084"`
	MongoURI     string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB      string `env:"MONGO_DB" envDefault:"fulfillment"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
