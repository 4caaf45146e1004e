package directory

import "errors"

var (
	// ErrMemberNotFound is returned when a member does not exist.
	ErrMemberNotFound = errors.New("directory: member not found")
	// ErrBuildingNotFound is returned when a building does not exist.
	ErrBuildingNotFound = errors.New("directory: building not found")
)
