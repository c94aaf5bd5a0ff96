package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QueueConfig controls the notification dispatch stream. Consumer names
// should differ per replica so the group can spread and reclaim work.
type QueueConfig struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

// ClassifierConfig selects the classification backend. Provider stays
// "mock" unless an API key is configured.
type ClassifierConfig struct {
	Provider string
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// NotifyConfig carries the alerting channels. Absent values disable the
// channel gracefully, they never fail startup.
type NotifyConfig struct {
	WebhookURL    string
	EmailEndpoint string
	EmailAPIKey   string
	EmailSender   string
	SenderName    string
	Timeout       time.Duration
}

// ArchiveConfig points at the object store that keeps submitted image
// payloads for audit. Empty endpoint disables archiving.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type ReconcileConfig struct {
	Schedule string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Queue            QueueConfig
	Classifier       ClassifierConfig
	Notify           NotifyConfig
	Archive          ArchiveConfig
	Reconcile        ReconcileConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("MODERATOR")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.dsn", "postgres://localhost:5432/moderator?sslmode=disable")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.stream", "moderation:notify")
	v.SetDefault("queue.group", "notifiers")
	v.SetDefault("queue.consumer", "api-1")
	v.SetDefault("queue.claiminterval", "30s")

	v.SetDefault("classifier.provider", "mock")
	v.SetDefault("classifier.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("classifier.model", "gpt-4o-mini")
	v.SetDefault("classifier.timeout", "15s")

	v.SetDefault("notify.emailendpoint", "https://api.brevo.com/v3/smtp/email")
	v.SetDefault("notify.sendername", "Content Moderator")
	v.SetDefault("notify.timeout", "10s")

	v.SetDefault("archive.bucket", "moderation-images")
	v.SetDefault("archive.usessl", false)
	v.SetDefault("archive.region", "us-east-1")

	v.SetDefault("reconcile.schedule", "0 */5 * * * *") // every five minutes
}
