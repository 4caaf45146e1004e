package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookNotifier posts reminders to a webhook, typically bridged to
// the association's mail or messaging gateway.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

type webhookPayload struct {
	MsgType string      `json:"msgtype"`
	Text    webhookText `json:"text"`
}

type webhookText struct {
	Content string `json:"content"`
}

// NewWebhookNotifier constructs a notifier.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends one reminder to the webhook.
func (n *WebhookNotifier) Notify(ctx context.Context, msg ReminderMessage) error {
	if n == nil || n.url == "" {
		return errors.New("webhook notifier: empty url")
	}
	payload := webhookPayload{
		MsgType: "text",
		Text:    webhookText{Content: formatReminder(msg)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("webhook notifier: non-2xx")
	}
	return nil
}

func formatReminder(msg ReminderMessage) string {
	var b strings.Builder
	b.WriteString("[Payment Reminder]\n")
	if msg.MemberName != "" {
		fmt.Fprintf(&b, "Member: %s\n", msg.MemberName)
	}
	if msg.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	}
	fmt.Fprintf(&b, "Amount Due: %s\n", msg.AmountDue.StringFixed(2))
	if !msg.DueDate.IsZero() {
		fmt.Fprintf(&b, "Due Date: %s\n", msg.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Days Overdue: %d\n", msg.DaysOverdue)
	if msg.ReminderNumber > 0 {
		fmt.Fprintf(&b, "Reminder #%d\n", msg.ReminderNumber)
	}
	return strings.TrimSpace(b.String())
}
