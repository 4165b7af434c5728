package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string
	GRPCPort       string
	PlaceholderURL string
	AvatarURL      string
	PhotoURL       string
	RedisAddr      string // vide = stores en mémoire
	NatsUrl        string // vide = pas d'événements
	OtelEndpoint   string // vide = tracing désactivé
	Env            string // "local" ou "prod"
	LogLevel       string // vide = selon Env
	SampleRatio    float64

	PostInventory  int
	RetryInterval  time.Duration
	HTTPTimeout    time.Duration
	SessionCache   int
	SessionTTL     time.Duration
	TimelineTTL    time.Duration
	AllowedOrigins []string
}

// Load lit, par priorité croissante : valeurs par défaut, config.yaml, .env, variables d'environnement.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file, skipping")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("Invalid config.yaml, using environment and defaults", "error", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "50055")
	v.SetDefault("PLACEHOLDER_API_URL", "https://jsonplaceholder.typicode.com")
	v.SetDefault("AVATAR_API_URL", "https://api.dicebear.com/7.x/avataaars/svg")
	v.SetDefault("PHOTO_API_URL", "https://picsum.photos")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
	v.SetDefault("POST_INVENTORY", 100)
	v.SetDefault("RETRY_INTERVAL", 300*time.Millisecond)
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("SESSION_CACHE_SIZE", 1024)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("TIMELINE_TTL", 720*time.Hour)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func fromViper(v *viper.Viper) Config {
	return Config{
		HTTPPort:       strings.TrimSpace(v.GetString("HTTP_PORT")),
		GRPCPort:       strings.TrimSpace(v.GetString("GRPC_PORT")),
		PlaceholderURL: strings.TrimSpace(v.GetString("PLACEHOLDER_API_URL")),
		AvatarURL:      strings.TrimSpace(v.GetString("AVATAR_API_URL")),
		PhotoURL:       strings.TrimSpace(v.GetString("PHOTO_API_URL")),
		RedisAddr:      strings.TrimSpace(v.GetString("REDIS_ADDR")),
		NatsUrl:        strings.TrimSpace(v.GetString("NATS_URL")),
		OtelEndpoint:   strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		Env:            strings.TrimSpace(v.GetString("APP_ENV")),
		LogLevel:       strings.TrimSpace(v.GetString("LOG_LEVEL")),
		SampleRatio:    v.GetFloat64("OTEL_SAMPLE_RATIO"),
		PostInventory:  v.GetInt("POST_INVENTORY"),
		RetryInterval:  v.GetDuration("RETRY_INTERVAL"),
		HTTPTimeout:    v.GetDuration("HTTP_TIMEOUT"),
		SessionCache:   v.GetInt("SESSION_CACHE_SIZE"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		TimelineTTL:    v.GetDuration("TIMELINE_TTL"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
