package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	VNPay    VNPayConfig
	Redis    RedisConfig
	Outbox   OutboxConfig
	Retry    RetryConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	SessionHours    int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32

	// ConnectRetries bounds the startup ping attempts after the first.
	ConnectRetries int
}

type VNPayConfig struct {
	TmnCode       string
	HashSecret    string
	PayURL        string
	ReturnURL     string
	Version       string
	Command       string
	OrderType     string
	Locale        string
	ExpireMinutes int
}

// RedisConfig is optional; an empty Host disables the redis notification queue.
type RedisConfig struct {
	Host             string
	Port             int
	Password         string
	DB               int
	NotificationList string
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type OutboxConfig struct {
	PollInterval  time.Duration
	RetryInterval time.Duration
	BatchSize     int
	RetentionDays int
}

// RetryConfig governs retries of settlement writes after a verified callback.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "hotel-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SESSION_HOURS", 24)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_CONNECT_RETRIES", 5)

	v.SetDefault("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	v.SetDefault("VNPAY_RETURN_URL", "http://localhost:5173/payment-result")
	v.SetDefault("VNPAY_VERSION", "2.1.0")
	v.SetDefault("VNPAY_COMMAND", "pay")
	v.SetDefault("VNPAY_ORDER_TYPE", "other")
	v.SetDefault("VNPAY_LOCALE", "vn")
	v.SetDefault("VNPAY_EXPIRE_MINUTES", 15)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_NOTIFICATION_LIST", "hotel:notifications")

	v.SetDefault("OUTBOX_POLL_INTERVAL", "1s")
	v.SetDefault("OUTBOX_RETRY_INTERVAL", "10s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)
	v.SetDefault("OUTBOX_RETENTION_DAYS", 7)

	v.SetDefault("RETRY_MAX_RETRIES", 3)
	v.SetDefault("RETRY_INITIAL_INTERVAL", "100ms")
	v.SetDefault("RETRY_MAX_INTERVAL", "2s")
}

// LoadConfig reads .env when present; environment variables always win.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			SessionHours:    v.GetInt("SESSION_HOURS"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),

			ConnectRetries: v.GetInt("DB_CONNECT_RETRIES"),
		},
		VNPay: VNPayConfig{
			TmnCode:       v.GetString("VNPAY_TMN_CODE"),
			HashSecret:    v.GetString("VNPAY_HASH_SECRET"),
			PayURL:        v.GetString("VNPAY_URL"),
			ReturnURL:     v.GetString("VNPAY_RETURN_URL"),
			Version:       v.GetString("VNPAY_VERSION"),
			Command:       v.GetString("VNPAY_COMMAND"),
			OrderType:     v.GetString("VNPAY_ORDER_TYPE"),
			Locale:        v.GetString("VNPAY_LOCALE"),
			ExpireMinutes: v.GetInt("VNPAY_EXPIRE_MINUTES"),
		},
		Redis: RedisConfig{
			Host:             v.GetString("REDIS_HOST"),
			Port:             v.GetInt("REDIS_PORT"),
			Password:         v.GetString("REDIS_PASS"),
			DB:               v.GetInt("REDIS_DB"),
			NotificationList: v.GetString("REDIS_NOTIFICATION_LIST"),
		},
		Outbox: OutboxConfig{
			PollInterval:  v.GetDuration("OUTBOX_POLL_INTERVAL"),
			RetryInterval: v.GetDuration("OUTBOX_RETRY_INTERVAL"),
			BatchSize:     v.GetInt("OUTBOX_BATCH_SIZE"),
			RetentionDays: v.GetInt("OUTBOX_RETENTION_DAYS"),
		},
		Retry: RetryConfig{
			MaxRetries:      v.GetInt("RETRY_MAX_RETRIES"),
			InitialInterval: v.GetDuration("RETRY_INITIAL_INTERVAL"),
			MaxInterval:     v.GetDuration("RETRY_MAX_INTERVAL"),
		},
	}
}
