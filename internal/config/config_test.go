package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "PDF_STRATEGY", "PDF_RENDER_TIMEOUT", "DB_DSN", "SMTP_HOST", "TELEGRAM_CHAT_IDS", "TELEGRAM_CHAT_ID", "TRUSTED_PROXIES", "PDF_MAX_PENDING_JOBS"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "draw", c.PDF.Strategy)
	assert.Equal(t, 45*time.Second, c.PDF.RenderTimeout)
	assert.Equal(t, "host=localhost user=postgres password=postgres dbname=balkon port=5432 sslmode=disable", c.DB.URL())
	assert.False(t, c.SMTP.Configured())
	assert.Empty(t, c.Telegram.ChatIDs)
	assert.True(t, c.DB.AutoMigrate)
	assert.Empty(t, c.TrustedProxies)
	assert.Equal(t, 20, c.PDF.MaxPendingJobs)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PDF_STRATEGY", "Gotenberg")
	t.Setenv("PDF_RENDER_TIMEOUT", "20")
	t.Setenv("PDF_JOB_TTL", "2m")
	t.Setenv("PDF_MAX_CONCURRENT", "x")
	t.Setenv("DB_DSN", "postgres://u:p@db/balkon")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("SMTP_HOST", "smtp.example.sk")
	t.Setenv("SMTP_USER", "obchod@example.sk")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("TELEGRAM_CHAT_IDS", " 111, ,222 ")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")
	t.Setenv("PDF_MAX_PENDING_JOBS", "5")

	c := Load()
	assert.Equal(t, "gotenberg", c.PDF.Strategy)
	assert.Equal(t, 20*time.Second, c.PDF.RenderTimeout)
	assert.Equal(t, 2*time.Minute, c.PDF.JobTTL)
	assert.Equal(t, 2, c.PDF.MaxConcurrent)
	assert.Equal(t, "postgres://u:p@db/balkon", c.DB.URL())
	assert.False(t, c.DB.AutoMigrate)
	assert.True(t, c.SMTP.Configured())
	assert.Equal(t, "obchod@example.sk", c.SMTP.From)
	assert.Equal(t, []string{"111", "222"}, c.Telegram.ChatIDs)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, c.TrustedProxies)
	assert.Equal(t, 5, c.PDF.MaxPendingJobs)
}
