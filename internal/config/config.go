package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type SlackConfig struct {
	BotToken       string
	InfoChannelID  string
	ErrorChannelID string
}

func (s SlackConfig) Enabled() bool {
	return s.BotToken != ""
}

type Config struct {
	AppEnv        string
	Port          string
	Location      *time.Location
	DB            DBConfig
	RedisAddr     string
	KafkaBroker   string
	JWTSecret     string
	Slack         SlackConfig
	MailFrom      string
	HolidayRegion string
	LeavePolicy   LeavePolicy
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads the process environment. Callers load .env first with
// godotenv so local runs and containers share one code path.
func Load() (Config, error) {
	loc := time.UTC
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
		}
		loc = l
	}

	policy, err := LoadLeavePolicy(os.Getenv("LEAVE_POLICY_FILE"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:   getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "3000"),
		Location: loc,
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getenv("DB_PORT", "5432"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Slack: SlackConfig{
			BotToken:       os.Getenv("SLACK_BOT_TOKEN"),
			InfoChannelID:  os.Getenv("SLACK_INFO_CHANNEL"),
			ErrorChannelID: os.Getenv("SLACK_ERROR_CHANNEL"),
		},
		MailFrom:      os.Getenv("MAIL_FROM"),
		HolidayRegion: strings.ToLower(os.Getenv("HOLIDAY_REGION")),
		LeavePolicy:   policy,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
