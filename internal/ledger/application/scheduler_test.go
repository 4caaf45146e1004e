package application

import (
	"testing"
	"time"
)

func TestMatchesDailyAt(t *testing.T) {
	now := time.Date(2025, 3, 5, 2, 0, 30, 0, time.UTC)
	if !matchesDailyAt("02:00", now) {
		t.Fatal("expected 02:00 to match")
	}
	if matchesDailyAt("02:01", now) {
		t.Fatal("expected 02:01 not to match")
	}
	if matchesDailyAt("not-a-time", now) {
		t.Fatal("expected invalid value not to match")
	}
}

func TestNewSchedulerClampsQuotaDay(t *testing.T) {
	s := NewScheduler(nil, nil, nil, "02:00", "01:00", 31, nil)
	if s.quotaDay != 1 {
		t.Fatalf("quota day = %d, want 1", s.quotaDay)
	}
	s = NewScheduler(nil, nil, nil, "02:00", "01:00", 15, nil)
	if s.quotaDay != 15 {
		t.Fatalf("quota day = %d, want 15", s.quotaDay)
	}
}
