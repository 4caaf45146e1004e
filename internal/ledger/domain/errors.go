package ledger

import "errors"

var (
	// ErrEmptyBuildingID is returned when a building id is required.
	ErrEmptyBuildingID = errors.New("ledger: empty building id")
	// ErrEmptyMemberID is returned when a member id is required.
	ErrEmptyMemberID = errors.New("ledger: empty member id")
	// ErrEmptyTransactionID is returned when a transaction id is required.
	ErrEmptyTransactionID = errors.New("ledger: empty transaction id")
	// ErrTransactionNotFound is returned when a transaction does not exist.
	ErrTransactionNotFound = errors.New("ledger: transaction not found")
	// ErrPlanNotFound is returned when a payment plan does not exist.
	ErrPlanNotFound = errors.New("ledger: payment plan not found")
	// ErrNoArrearsFound is returned when a member has no open arrears.
	ErrNoArrearsFound = errors.New("ledger: no open arrears for member")
	// ErrInvalidInstallments is returned for a non-positive installment count.
	ErrInvalidInstallments = errors.New("ledger: installment count must be positive")
	// ErrIllegalTransition is returned for a disallowed status change.
	ErrIllegalTransition = errors.New("ledger: illegal status transition")
	// ErrNilTransaction is returned when inserting a nil transaction.
	ErrNilTransaction = errors.New("ledger: nil transaction")
)
