package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "APP_ENV", "STORE_DRIVER", "JWT_SECRET", "TOKEN_TTL", "SMTP_PORT", "LLM_MODEL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":7860", cfg.Addr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "sqlite3", cfg.StoreDriver)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, DefaultLLMModel, cfg.LLMModel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "my-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("PUBLIC_BASE_URL", "https://chat.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com/, https://b.example.com")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "pgx", cfg.StoreDriver)
	assert.Equal(t, "my-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.SMTP.Secure)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "https://chat.example.com", cfg.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	t.Setenv("SMTP_PORT", "-5")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestBindFlags(t *testing.T) {
	cfg := Config{Addr: ":7860", StoreDriver: "sqlite3"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"-addr", ":1234", "-store", "mongo"}))
	assert.Equal(t, ":1234", cfg.Addr)
	assert.Equal(t, "mongo", cfg.StoreDriver)
}

func TestValidate(t *testing.T) {
	base := Config{Addr: ":7860", Env: "dev", StoreDriver: "sqlite3", DatabaseDSN: "x.db", JWTSecret: DefaultJWTSecret}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid dev config", func(c *Config) {}, false},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, true},
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }, true},
		{"mongo without uri", func(c *Config) { c.StoreDriver = "mongo" }, true},
		{"mongo with uri", func(c *Config) { c.StoreDriver = "mongo"; c.MongoURI = "mongodb://x" }, false},
		{"default secret in prod", func(c *Config) { c.Env = "prod" }, true},
		{"custom secret in prod", func(c *Config) { c.Env = "prod"; c.JWTSecret = "s3cret" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
