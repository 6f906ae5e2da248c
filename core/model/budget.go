package model

import "fmt"

// ValidateBudget checks a daily study budget in minutes.
func ValidateBudget(minutes int) error {
	if minutes < MinDailyBudget || minutes > MaxDailyBudget {
		return fmt.Errorf("%w: %d minutes not in [%d, %d]", ErrInvalidBudget, minutes, MinDailyBudget, MaxDailyBudget)
	}
	return nil
}
