package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"audio-mixing-backend/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	JWT    JWT
	Stripe Stripe
	PayPal PayPal
	Kafka  Kafka
	Redis  Redis

	FrontendURL string
	AdminURL    string
	AdminEmail  string
}

type DB struct {
	database.Config
}

type JWT struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
}

type PayPal struct {
	ClientID string
	Secret   string
	Mode     string // sandbox | live
}

type Kafka struct {
	Brokers    []string
	EmailTopic string
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: normalizePort(getEnv("APP_PORT", log)),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		JWT: JWT{
			Secret:     getEnv("JWT_SECRET", log),
			Issuer:     getEnvDefault("JWT_ISSUER", "audio-mixing-backend"),
			Audience:   getEnvDefault("JWT_AUDIENCE", "audio-mixing-frontend"),
			AccessTTL:  time.Duration(atoiDefault(os.Getenv("ACCESS_TTL_MIN"), 30)) * time.Minute,
			RefreshTTL: time.Duration(atoiDefault(os.Getenv("REFRESH_TTL_DAYS"), 30)) * 24 * time.Hour,
		},
		Stripe: Stripe{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", log),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", log),
		},
		PayPal: PayPal{
			ClientID: getEnv("PAYPAL_CLIENT_ID", log),
			Secret:   getEnv("PAYPAL_CLIENT_SECRET", log),
			Mode:     getEnvDefault("PAYPAL_MODE", "sandbox"),
		},
		Kafka: Kafka{
			Brokers:    splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			EmailTopic: getEnvDefault("KAFKA_TOPIC_EMAIL", "emails"),
		},
		Redis: Redis{
			Enabled:  os.Getenv("REDIS_ADDR") != "",
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
		},
		FrontendURL: getEnv("FRONTEND_URL", log),
		AdminURL:    getEnvDefault("ADMIN_URL", ""),
		AdminEmail:  getEnv("ADMIN_EMAIL", log),
	}
}

// NotifierConfig is the subset the notifier binary needs. SMTP is optional:
// with no host configured the sender only logs outgoing mail.
type NotifierConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	TMPLDir string

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopic   string
}

func LoadNotifier(log *zap.Logger) *NotifierConfig {
	return &NotifierConfig{
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     atoiDefault(os.Getenv("SMTP_PORT"), 465),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvDefault("SMTP_FROM", "no-reply@localhost"),
		TMPLDir:      getEnvDefault("TMPL_DIR", "templates"),
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID: getEnvDefault("KAFKA_GROUP_ID", "notifier"),
		KafkaTopic:   getEnvDefault("KAFKA_TOPIC_EMAIL", "emails"),
	}
}

// normalizePort turns a bare port ("8080") into a listen address (":8080");
// values already carrying a colon pass through.
func normalizePort(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return ":" + v
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
