package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type StoreDriver string

const (
	// StoreDriverAPI - ходим в REST API бэкенда госпиталя
	StoreDriverAPI StoreDriver = "api"
	// StoreDriverMongo - читаем документное хранилище бэкенда напрямую
	StoreDriverMongo StoreDriver = "mongo"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Moscow"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Store struct {
		Driver StoreDriver `env:"STORE_DRIVER" envDefault:"api"`

		HmsAPI struct {
			URL      string `env:"HMS_API_URL"`
			Username string `env:"HMS_API_USERNAME"`
			Password string `env:"HMS_API_PASSWORD"`
		}

		Mongo struct {
			URI      string `env:"MONGO_URI"`
			Database string `env:"MONGO_DATABASE" envDefault:"hospital"`
		}
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"slot_scheduler:slot_scheduler"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri string `env:"RABBITMQ_URL"`

		QueueConfig struct {
			AppointmentQueueName     string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"hms.slot-scheduler.appointment"`
			AppointmentQueueBind     string `env:"RABBITMQ_APPOINTMENT_QUEUE_BIND" envDefault:"hms.slot-scheduler.appointment.*.*"`
			AppointmentQueueExchange string `env:"RABBITMQ_APPOINTMENT_QUEUE_EXCHANGE" envDefault:"hms"`

			ScheduleQueueName     string `env:"RABBITMQ_SCHEDULE_QUEUE" envDefault:"hms.slot-scheduler.schedule"`
			ScheduleQueueBind     string `env:"RABBITMQ_SCHEDULE_QUEUE_BIND" envDefault:"hms.slot-scheduler.schedule.*.*"`
			ScheduleQueueExchange string `env:"RABBITMQ_SCHEDULE_QUEUE_EXCHANGE" envDefault:"hms"`
		}
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED"`
		Size    int  `env:"CACHE_SIZE" envDefault:"1000"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	if cfg.Store.Driver != StoreDriverAPI && cfg.Store.Driver != StoreDriverMongo {
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	// Разбор списка basic-клиентов вида user1:pass1,user2:pass2
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Без RabbitMQ кэш не включаем: без событий инвалидации он протухнет
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
