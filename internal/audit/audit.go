package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry records one financial action: who did what to which resource.
type Entry struct {
	ID            string
	AssociationID string
	Actor         string
	Role          string
	Action        string
	ResourceType  string
	ResourceID    string
	BuildingID    string
	Metadata      json.RawMessage
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}
