package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Log          LogConfig
	Order        OrderConfig
	Redis        RedisConfig
	Notification NotificationConfig
}

type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type LogConfig struct {
	Level string
}

type OrderConfig struct {
	ReservationTxTimeout time.Duration
	MaxRetryAttempts     int
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
	PendingTTL     time.Duration
}

type NotificationConfig struct {
	Driver      string
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
	MaxAttempts int
	Email       EmailConfig
	Kafka       KafkaConfig
}

type EmailConfig struct {
	APIURL string
	APIKey string
	From   string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

const (
	StoreDriverMySQL  = "mysql"
	StoreDriverMemory = "memory"

	NotifyDriverLog   = "log"
	NotifyDriverEmail = "email"
	NotifyDriverKafka = "kafka"
)

// Load reads configuration from the environment (and a .env file when
// present). CONFIG_FILE may point at a YAML file whose keys use the same names
// as the environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "15s")
	v.SetDefault("DB_DRIVER", StoreDriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "agrolink")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "agrolink")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_IDEMPOTENCY_TTL", "24h")
	v.SetDefault("REDIS_IDEMPOTENCY_PENDING_TTL", "1m")
	v.SetDefault("NOTIFY_DRIVER", NotifyDriverLog)
	v.SetDefault("NOTIFY_WORKERS", 4)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("NOTIFY_SEND_TIMEOUT", "10s")
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	v.SetDefault("EMAIL_API_URL", "https://api.resend.com/emails")
	v.SetDefault("EMAIL_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "AgroLink <orders@agrolink.example>")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_NOTIFICATION_TOPIC", "agrolink.notifications")
}

func fromViper(v *viper.Viper) (*Config, error) {
	durations := map[string]*time.Duration{}
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			MaxRetryAttempts: v.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Notification: NotificationConfig{
			Driver:      strings.ToLower(v.GetString("NOTIFY_DRIVER")),
			Workers:     v.GetInt("NOTIFY_WORKERS"),
			QueueSize:   v.GetInt("NOTIFY_QUEUE_SIZE"),
			MaxAttempts: v.GetInt("NOTIFY_MAX_ATTEMPTS"),
			Email: EmailConfig{
				APIURL: v.GetString("EMAIL_API_URL"),
				APIKey: v.GetString("EMAIL_API_KEY"),
				From:   v.GetString("EMAIL_FROM"),
			},
			Kafka: KafkaConfig{
				Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
				Topic:   v.GetString("KAFKA_NOTIFICATION_TOPIC"),
			},
		},
	}

	durations["SERVER_REQUEST_TIMEOUT"] = &cfg.Server.RequestTimeout
	durations["DB_CONN_MAX_LIFETIME"] = &cfg.Database.ConnMaxLifetime
	durations["ORDER_TX_TIMEOUT"] = &cfg.Order.ReservationTxTimeout
	durations["REDIS_IDEMPOTENCY_TTL"] = &cfg.Redis.IdempotencyTTL
	durations["REDIS_IDEMPOTENCY_PENDING_TTL"] = &cfg.Redis.PendingTTL
	durations["NOTIFY_SEND_TIMEOUT"] = &cfg.Notification.SendTimeout

	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case StoreDriverMySQL, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Notification.Driver {
	case NotifyDriverLog, NotifyDriverEmail, NotifyDriverKafka:
	default:
		return fmt.Errorf("unsupported NOTIFY_DRIVER %q", c.Notification.Driver)
	}

	if c.Notification.Driver == NotifyDriverEmail && c.Notification.Email.APIKey == "" {
		return fmt.Errorf("EMAIL_API_KEY is required when NOTIFY_DRIVER=%s", NotifyDriverEmail)
	}

	if c.Order.MaxRetryAttempts < 1 {
		return fmt.Errorf("ORDER_MAX_RETRY_ATTEMPTS must be at least 1")
	}

	if c.Redis.PendingTTL <= 0 || c.Redis.PendingTTL > c.Redis.IdempotencyTTL {
		return fmt.Errorf("REDIS_IDEMPOTENCY_PENDING_TTL must be positive and at most REDIS_IDEMPOTENCY_TTL")
	}

	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
