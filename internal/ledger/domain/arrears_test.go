package ledger

import (
	"testing"
	"time"
)

func TestReminderDue(t *testing.T) {
	cfg := DefaultArrearsConfig("b1")
	now := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

	rec := ArrearsRecord{Status: ArrearsStatusPending}
	if !rec.ReminderDue(cfg, now) {
		t.Fatal("first reminder should be due immediately")
	}

	rec.LastReminderAt = now.AddDate(0, 0, -3)
	rec.ReminderCount = 1
	if rec.ReminderDue(cfg, now) {
		t.Fatal("reminder inside frequency window should not be due")
	}

	rec.LastReminderAt = now.AddDate(0, 0, -cfg.ReminderFrequencyDays)
	if !rec.ReminderDue(cfg, now) {
		t.Fatal("reminder at frequency boundary should be due")
	}

	rec.ReminderCount = cfg.MaxReminders
	if rec.ReminderDue(cfg, now) {
		t.Fatal("reminder past max count should not be due")
	}

	settled := ArrearsRecord{Status: ArrearsStatusSettled}
	if settled.ReminderDue(cfg, now) {
		t.Fatal("settled record should never get a reminder")
	}
	if rec.ReminderDue(nil, now) {
		t.Fatal("nil config should never get a reminder")
	}
}

func TestDefaultArrearsConfig(t *testing.T) {
	cfg := DefaultArrearsConfig("b1")
	if cfg.BuildingID != "b1" {
		t.Fatalf("building id = %q", cfg.BuildingID)
	}
	if cfg.GracePeriodDays != 10 {
		t.Fatalf("grace period = %d, want 10", cfg.GracePeriodDays)
	}
	if !cfg.AutoGenerateArrears {
		t.Fatal("auto generate should default on")
	}
	if cfg.MaxReminders != 3 || cfg.ReminderFrequencyDays != 7 {
		t.Fatalf("reminder policy = %d/%d, want 3/7", cfg.MaxReminders, cfg.ReminderFrequencyDays)
	}
}
