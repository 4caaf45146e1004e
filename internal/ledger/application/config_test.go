package application

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LEDGER_CONFIG", "")
	t.Setenv("QUOTA_DUE_DAY", "")
	t.Setenv("SWEEP_DAILY_AT", "")
	t.Setenv("QUOTA_MONTHLY_AT", "")
	t.Setenv("QUOTA_GENERATION_DAY", "")
	t.Setenv("REMINDER_WEBHOOK_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.QuotaDueDay != 10 {
		t.Fatalf("due day = %d, want 10", cfg.QuotaDueDay)
	}
	if cfg.Schedule.SweepDailyAt != "02:00" || cfg.Schedule.QuotaMonthlyAt != "01:00" {
		t.Fatalf("schedule = %+v", cfg.Schedule)
	}
	if cfg.Schedule.QuotaDay != 1 {
		t.Fatalf("quota day = %d, want 1", cfg.Schedule.QuotaDay)
	}
}

func TestLoadConfigEnvAndOverlay(t *testing.T) {
	t.Setenv("QUOTA_DUE_DAY", "15")
	t.Setenv("REMINDER_WEBHOOK_URL", "https://hooks.example.org/reminders")

	path := filepath.Join(t.TempDir(), "ledger.yaml")
	overlay := []byte("schedule:\n  sweep_daily_at: \"03:30\"\n  quota_day: 2\n")
	if err := os.WriteFile(path, overlay, 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("LEDGER_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.QuotaDueDay != 15 {
		t.Fatalf("due day = %d, want 15", cfg.QuotaDueDay)
	}
	if cfg.ReminderWebhookURL != "https://hooks.example.org/reminders" {
		t.Fatalf("webhook = %q", cfg.ReminderWebhookURL)
	}
	if cfg.Schedule.SweepDailyAt != "03:30" {
		t.Fatalf("sweep at = %q, want overlay 03:30", cfg.Schedule.SweepDailyAt)
	}
	if cfg.Schedule.QuotaDay != 2 {
		t.Fatalf("quota day = %d, want 2", cfg.Schedule.QuotaDay)
	}
	if cfg.Schedule.QuotaMonthlyAt != "01:00" {
		t.Fatalf("quota at = %q, want default", cfg.Schedule.QuotaMonthlyAt)
	}
}
