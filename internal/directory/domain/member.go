package directory

import (
	"context"

	"github.com/shopspring/decimal"
)

// Member is a condominium member as seen by the financial core.
type Member struct {
	ID             string
	BuildingID     string
	Name           string
	Email          string
	OwnershipShare decimal.Decimal
	IsActive       bool
}

// MemberRepository reads the member directory.
type MemberRepository interface {
	Get(ctx context.Context, id string) (*Member, error)
	ListActiveByBuilding(ctx context.Context, buildingID string) ([]Member, error)
}
