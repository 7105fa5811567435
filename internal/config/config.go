package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	AppID    string

	DB DB

	AssetsDir string
	PDF       PDF
	SMTP      SMTP
	Telegram  Telegram

	OfferNotifyEmail string
	MaxBodyBytes     int64
	PDFRateLimit     int

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed when keying rate limits.
	TrustedProxies []string
}

type DB struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// AutoMigrate runs schema migration and catalog seeding at startup.
	AutoMigrate bool
}

// URL returns DB_DSN when set, otherwise a DSN built from the parts.
func (d DB) URL() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type PDF struct {
	Strategy          string
	MaxConcurrent     int
	RenderTimeout     time.Duration
	JobTTL            time.Duration
	MaxPendingJobs    int
	MaxStoredJobs     int
	ChromePath        string
	GotenbergURL      string
	GotenbergUser     string
	GotenbergPassword string
}

type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Configured reports whether mail can be sent at all.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.Port != 0 && s.User != "" && s.Pass != ""
}

type Telegram struct {
	Token   string
	ChatIDs []string
}

// Load reads the configuration from the environment.
func Load() *Config {
	smtpUser := getEnv("SMTP_USER", "")
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AppID:    getEnv("APP_ID", "balkon"),
		DB: DB{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "balkon"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		AssetsDir: getEnv("ASSETS_DIR", "assets"),
		PDF: PDF{
			Strategy:          strings.ToLower(getEnv("PDF_STRATEGY", "draw")),
			MaxConcurrent:     getEnvAsInt("PDF_MAX_CONCURRENT", 2),
			RenderTimeout:     getEnvAsDuration("PDF_RENDER_TIMEOUT", 45*time.Second),
			JobTTL:            getEnvAsDuration("PDF_JOB_TTL", 15*time.Minute),
			MaxPendingJobs:    getEnvAsInt("PDF_MAX_PENDING_JOBS", 20),
			MaxStoredJobs:     getEnvAsInt("PDF_MAX_STORED_JOBS", 200),
			ChromePath:        getEnv("CHROME_PATH", ""),
			GotenbergURL:      getEnv("GOTENBERG_URL", "http://localhost:3000"),
			GotenbergUser:     getEnv("GOTENBERG_USER", ""),
			GotenbergPassword: getEnv("GOTENBERG_PASSWORD", ""),
		},
		SMTP: SMTP{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnvAsInt("SMTP_PORT", 587),
			User: smtpUser,
			Pass: getEnv("SMTP_PASS", ""),
			From: getEnv("MAIL_FROM", smtpUser),
		},
		Telegram: Telegram{
			Token:   getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatIDs: splitList(getEnv("TELEGRAM_CHAT_IDS", os.Getenv("TELEGRAM_CHAT_ID"))),
		},
		OfferNotifyEmail: getEnv("OFFER_NOTIFY_EMAIL", ""),
		MaxBodyBytes:     int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		PDFRateLimit:     getEnvAsInt("PDF_RATE_LIMIT", 10),
		TrustedProxies:   splitList(getEnv("TRUSTED_PROXIES", "")),
	}
}

func (c *Config) Production() bool { return c.Env == "production" }

func getEnv(key, defaultVal string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
