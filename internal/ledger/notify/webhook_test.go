package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWebhookNotifierPostsReminder(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	msg := ReminderMessage{
		BuildingID:     "b1",
		MemberID:       "m1",
		MemberName:     "Ana Duarte",
		Email:          "ana@example.org",
		AmountDue:      decimal.RequireFromString("150.00"),
		DueDate:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DaysOverdue:    15,
		ReminderNumber: 1,
	}
	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	var payload struct {
		MsgType string `json:"msgtype"`
		Text    struct {
			Content string `json:"content"`
		} `json:"text"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.MsgType != "text" {
		t.Fatalf("msgtype = %q, want text", payload.MsgType)
	}
	for _, want := range []string{"Ana Duarte", "150.00", "2025-03-10", "Days Overdue: 15", "Reminder #1"} {
		if !strings.Contains(payload.Text.Content, want) {
			t.Fatalf("content missing %q:\n%s", want, payload.Text.Content)
		}
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	if err := n.Notify(context.Background(), ReminderMessage{}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestWebhookNotifierEmptyURL(t *testing.T) {
	n := NewWebhookNotifier("")
	if err := n.Notify(context.Background(), ReminderMessage{}); err == nil {
		t.Fatal("expected error for empty url")
	}
}
