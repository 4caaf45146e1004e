package directory

import (
	"context"

	"github.com/shopspring/decimal"
)

// Building is a managed property with its quota configuration.
type Building struct {
	ID                    string
	Name                  string
	MonthlyQuota          decimal.Decimal
	ReserveFundPercentage decimal.Decimal
	IsActive              bool
}

// BuildingRepository reads the building directory.
type BuildingRepository interface {
	Get(ctx context.Context, id string) (*Building, error)
	ListActive(ctx context.Context) ([]Building, error)
}
