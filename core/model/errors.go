package model

import "errors"

var (
	ErrInvalidTask    = errors.New("invalid task")
	ErrInvalidExam    = errors.New("invalid exam")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidBudget  = errors.New("invalid daily budget")
	ErrDuplicateID    = errors.New("duplicate identity")
	ErrInvalidDate    = errors.New("invalid reference date")
)

// Budget bounds in minutes.
const (
	MinDailyBudget = 60
	MaxDailyBudget = 960
)

// IsInvalidInput reports whether err stems from malformed input rather than
// an infrastructure failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidTask) ||
		errors.Is(err, ErrInvalidExam) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrInvalidBudget) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidDate)
}
