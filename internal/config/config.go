package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	RedisURL    string

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir     string
	PublicBaseURL string

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	CertificateTemplate string
	ExternalCallTimeout time.Duration
	QuizCacheTTL        time.Duration

	CORSOrigins []string

	AdminEmail    string
	AdminPassword string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Port:        port,
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "supersecretkey"),
		TokenTTL:  getDuration("TOKEN_TTL", 365*24*time.Hour),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@tdsa.academy"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "The Data Science Academy"),

		CertificateTemplate: getEnv("CERTIFICATE_TEMPLATE", "assets"),
		ExternalCallTimeout: getDuration("EXTERNAL_CALL_TIMEOUT", 15*time.Second),
		QuizCacheTTL:        getDuration("QUIZ_CACHE_TTL", 10*time.Minute),

		CORSOrigins: getList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Events: EventConfig{
			Enabled:           getBool("EVENTS_ENABLED", true),
			Publisher:         getEnv("EVENTS_PUBLISHER", "gochannel"),
			KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "academy-events"),
			ConsumerGroup:     getEnv("CONSUMER_GROUP", "academy-service"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
