package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultJWTSecret = "dev-secret-change-me"
	DefaultLLMURL    = "https://router.huggingface.co/v1"
	DefaultLLMModel  = "moonshotai/Kimi-K2.5"
	DefaultMailFrom  = `"AI Agent" <no-reply@aiagent.com>`
)

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Secure   bool
}

type Config struct {
	Addr          string
	Env           string
	StoreDriver   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	TokenTTL      time.Duration
	PublicBaseURL string
	StaticDir     string
	CORSOrigins   []string
	SMTP          SMTP
	LLMAPIKey     string
	LLMBaseURL    string
	LLMModel      string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	// sqlite3 runs locally with no services; production sets STORE_DRIVER=mongo.
	driver := getenv("STORE_DRIVER", "sqlite3")
	if driver == "postgres" {
		driver = "pgx"
	}
	return Config{
		Addr:          ":" + getenv("PORT", "7860"),
		Env:           getenv("APP_ENV", "dev"),
		StoreDriver:   driver,
		DatabaseDSN:   getenv("DATABASE_DSN", "aichat.db"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "aichat"),
		JWTSecret:     getenv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:      getenvDuration("TOKEN_TTL", time.Hour),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		StaticDir:     getenv("STATIC_DIR", "static"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getenv("SMTP_FROM", DefaultMailFrom),
			Secure:   getenv("SMTP_SECURE", "false") == "true",
		},
		LLMAPIKey:  os.Getenv("HUGGINGFACEHUB_API_KEY"),
		LLMBaseURL: getenv("LLM_BASE_URL", DefaultLLMURL),
		LLMModel:   getenv("LLM_MODEL", DefaultLLMModel),
	}
}

// BindFlags registers command line overrides on fs. Call fs.Parse afterwards.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "http service address")
	fs.StringVar(&c.StoreDriver, "store", c.StoreDriver, "store driver: mongo, sqlite3 or pgx")
}

func Validate(c Config) error {
	if c.Addr == "" || c.Addr == ":" {
		return errors.New("empty listen address")
	}
	switch c.StoreDriver {
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo store")
		}
	case "sqlite3", "pgx":
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the sql store")
		}
	default:
		return errors.New("unknown store driver: " + c.StoreDriver)
	}
	if c.Env != "dev" && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set outside dev")
	}
	return nil
}
