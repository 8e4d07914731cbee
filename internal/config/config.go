package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	SecretKey       string
	DBDSN           string
	RazorpayKeyID   string
	RazorpaySecret  string
	RazorpayBaseURL string
	RedisAddr       string
	LogFile         string
	SessionTTL      time.Duration
	CookieSecure    bool
	AdminEmail      string
	AdminPassword   string
}

// Load reads .env (if present) and the environment. The session key, database DSN and
// both Razorpay credentials are required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            getenv("PORT", "8080"),
		SecretKey:       strings.TrimSpace(os.Getenv("SECRET_KEY")),
		DBDSN:           strings.TrimSpace(os.Getenv("DB_DSN")),
		RazorpayKeyID:   strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpaySecret:  strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		RazorpayBaseURL: getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		LogFile:         strings.TrimSpace(os.Getenv("LOG_FILE")),
		CookieSecure:    getenv("COOKIE_SECURE", "false") == "true",
		AdminEmail:      strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}

	hours, err := strconv.Atoi(getenv("SESSION_TTL_HOURS", "168"))
	if err != nil || hours <= 0 {
		return Config{}, errors.New("SESSION_TTL_HOURS must be a positive integer")
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	var missing []string
	for _, req := range []struct{ name, val string }{
		{"SECRET_KEY", cfg.SecretKey},
		{"DB_DSN", cfg.DBDSN},
		{"RAZORPAY_KEY_ID", cfg.RazorpayKeyID},
		{"RAZORPAY_KEY_SECRET", cfg.RazorpaySecret},
	} {
		if req.val == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	log.Printf("[config] PORT=%s DB_DSN=%s REDIS_ADDR=%s LOG_FILE=%s RAZORPAY_BASE_URL=%s",
		cfg.Port, redactDSN(cfg.DBDSN), cfg.RedisAddr, cfg.LogFile, cfg.RazorpayBaseURL)
	return cfg, nil
}

func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// redactDSN hides the password in a postgres URL.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":***"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}
