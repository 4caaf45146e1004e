package period

import "errors"

var (
	// ErrEmptyBuildingID is returned when a building id is required.
	ErrEmptyBuildingID = errors.New("period: empty building id")
	// ErrInvalidYear is returned for a non-positive fiscal year.
	ErrInvalidYear = errors.New("period: invalid fiscal year")
	// ErrNilPeriod is returned when saving a nil period.
	ErrNilPeriod = errors.New("period: nil period")
)
