package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ScheduleConfig holds the job schedule.
type ScheduleConfig struct {
	SweepDailyAt   string `yaml:"sweep_daily_at"`
	QuotaMonthlyAt string `yaml:"quota_monthly_at"`
	QuotaDay       int    `yaml:"quota_day"`
}

// Config holds ledger job configuration. Values come from env vars,
// optionally overlaid by a yaml file pointed at by LEDGER_CONFIG.
type Config struct {
	Schedule           ScheduleConfig `yaml:"schedule"`
	QuotaDueDay        int            `yaml:"quota_due_day"`
	ReminderWebhookURL string         `yaml:"reminder_webhook_url"`
}

// LoadConfig loads config from env, then the optional yaml overlay.
func LoadConfig() (Config, error) {
	cfg := Config{
		QuotaDueDay:        getenvIntDefault("QUOTA_DUE_DAY", 10),
		ReminderWebhookURL: os.Getenv("REMINDER_WEBHOOK_URL"),
	}

	if path := os.Getenv("LEDGER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Schedule.SweepDailyAt == "" {
		cfg.Schedule.SweepDailyAt = getenvDefault("SWEEP_DAILY_AT", "02:00")
	}
	if cfg.Schedule.QuotaMonthlyAt == "" {
		cfg.Schedule.QuotaMonthlyAt = getenvDefault("QUOTA_MONTHLY_AT", "01:00")
	}
	if cfg.Schedule.QuotaDay == 0 {
		cfg.Schedule.QuotaDay = getenvIntDefault("QUOTA_GENERATION_DAY", 1)
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
