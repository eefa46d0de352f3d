package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/clock"
	"github.com/confhub/confhub/pkg/email"
)

type Config struct {
	Port              string
	DatabaseURL       string
	AutoMigrate       bool
	Insecure          bool
	InsecureUserEmail string // Email of user to authenticate as in insecure mode
	AllowedOrigins    []string
	TrustedProxies    []string

	// JWT
	JWTSecret string

	// Background tasks
	ReminderInterval time.Duration // how often the CFP reminder sweep runs
	FeedURL          string        // external conference feed, empty disables sync
	FeedSyncInterval time.Duration

	// Email (Resend)
	ResendAPIKey string
	EmailFrom    string
	BaseURL      string
	EmailSender  email.Sender

	DB     *gorm.DB
	Logger *slog.Logger
	Clock  clock.Clock

	// OnBackgroundDone, when set, is called after each SafeGo goroutine
	// finishes. Tests use it to wait for async email sends.
	OnBackgroundDone func()
}

func InitConfig() (*Config, error) {
	// A local .env is a dev convenience; missing is fine.
	_ = godotenv.Load()

	port := flag.String("port", "", "port to listen on")
	autoMigrate := flag.Bool("auto-migrate", false, "enable auto-migration")
	insecure := flag.Bool("insecure", false, "allow calling all endpoints without authentication")
	reminderInterval := flag.Duration("reminder-interval", 6*time.Hour, "CFP reminder sweep interval (e.g. 30m, 6h)")
	feedSyncInterval := flag.Duration("feed-sync-interval", 1*time.Hour, "conference feed sync interval")
	flag.Parse()

	// Only accept explicitly truthy values to avoid INSECURE=false enabling insecure mode
	insecureEnv := strings.ToLower(os.Getenv("INSECURE"))
	insecureMode := *insecure || insecureEnv == "true" || insecureEnv == "1" || insecureEnv == "yes"

	// Port: flag > env > default
	portVal := *port
	if portVal == "" {
		portVal = os.Getenv("PORT")
	}
	if portVal == "" {
		portVal = "8080"
	}

	// Database URL
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if insecureMode {
			dsn = "host=localhost user=postgres password=postgres dbname=confhub port=5432 sslmode=disable"
		} else {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required in production")
		}
	} else if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		// Auto-add sslmode=require for Heroku-style URLs
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	}

	reminderIntervalVal := *reminderInterval
	if env := os.Getenv("REMINDER_INTERVAL"); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			reminderIntervalVal = d
		}
	}
	feedSyncIntervalVal := *feedSyncInterval
	if env := os.Getenv("FEED_SYNC_INTERVAL"); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			feedSyncIntervalVal = d
		}
	}

	allowedOrigins := splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	trustedProxies := splitList(os.Getenv("TRUSTED_PROXIES"))

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// JWT
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if insecureMode {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				return nil, fmt.Errorf("failed to generate random JWT secret: %w", err)
			}
			jwtSecret = hex.EncodeToString(b)
			logger.Warn("JWT_SECRET not set - using random ephemeral secret (insecure mode). Tokens will not survive restarts.")
		} else {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required")
		}
	}
	if !insecureMode && len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters for adequate security")
	}
	if insecureMode {
		logger.Warn("WARNING: Running in INSECURE mode - all authentication is bypassed")
	}

	// Email (Resend)
	resendAPIKey := os.Getenv("RESEND_API_KEY")
	emailFrom := os.Getenv("EMAIL_FROM")
	if emailFrom == "" {
		emailFrom = "ConfHub <notifications@updates.confhub.dev>"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + portVal
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid BASE_URL %q: %w", baseURL, err)
	}
	if resendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not set - email notifications disabled")
	}

	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		logger.Warn("FEED_URL not set - conference feed sync disabled")
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		if insecureMode {
			logger.Warn("ALLOWED_ORIGINS is set to wildcard (*) - acceptable in insecure mode")
		} else {
			return nil, fmt.Errorf("ALLOWED_ORIGINS environment variable is required in production (currently wildcard *)")
		}
	}

	var sender email.Sender
	if resendAPIKey != "" {
		sender = email.NewResendSender(resendAPIKey)
	} else {
		sender = &email.NoopSender{Logger: logger}
	}

	return &Config{
		Port:              portVal,
		DatabaseURL:       dsn,
		AutoMigrate:       *autoMigrate || os.Getenv("DATABASE_AUTO_MIGRATE") != "",
		Insecure:          insecureMode,
		InsecureUserEmail: os.Getenv("INSECURE_USER_EMAIL"),
		AllowedOrigins:    allowedOrigins,
		TrustedProxies:    trustedProxies,
		JWTSecret:         jwtSecret,
		ReminderInterval:  reminderIntervalVal,
		FeedURL:           feedURL,
		FeedSyncInterval:  feedSyncIntervalVal,
		ResendAPIKey:      resendAPIKey,
		EmailFrom:         emailFrom,
		BaseURL:           baseURL,
		EmailSender:       sender,
		Logger:            logger,
		Clock:             clock.System{},
	}, nil
}

// splitList parses a comma-separated environment value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
