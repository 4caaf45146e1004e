package application

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	directory "condoledger/internal/directory/domain"
	"condoledger/internal/ledger/notify"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeBuildings struct {
	items []directory.Building
}

func (f *fakeBuildings) Get(_ context.Context, id string) (*directory.Building, error) {
	for _, b := range f.items {
		if b.ID == id {
			copy := b
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeBuildings) ListActive(_ context.Context) ([]directory.Building, error) {
	var result []directory.Building
	for _, b := range f.items {
		if b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeMembers struct {
	items []directory.Member
}

func (f *fakeMembers) Get(_ context.Context, id string) (*directory.Member, error) {
	for _, m := range f.items {
		if m.ID == id {
			copy := m
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeMembers) ListActiveByBuilding(_ context.Context, buildingID string) ([]directory.Member, error) {
	var result []directory.Member
	for _, m := range f.items {
		if m.BuildingID == buildingID && m.IsActive {
			result = append(result, m)
		}
	}
	return result, nil
}

type captureNotifier struct {
	mu   sync.Mutex
	msgs []notify.ReminderMessage
}

func (n *captureNotifier) Notify(_ context.Context, msg notify.ReminderMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *captureNotifier) sent() []notify.ReminderMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.ReminderMessage(nil), n.msgs...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testBuilding(id string, quota string) directory.Building {
	return directory.Building{
		ID:                    id,
		Name:                  "Building " + id,
		MonthlyQuota:          dec(quota),
		ReserveFundPercentage: dec("0.10"),
		IsActive:              true,
	}
}

func testMember(id, buildingID, share string) directory.Member {
	return directory.Member{
		ID:             id,
		BuildingID:     buildingID,
		Name:           "Member " + id,
		Email:          id + "@example.org",
		OwnershipShare: dec(share),
		IsActive:       true,
	}
}
