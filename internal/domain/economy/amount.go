package economy

import (
	"github.com/cockroachdb/errors"
)

// MaxAmount bounds every monetary input: prices, bids, fines, cash adjustments.
const MaxAmount int64 = 1_000_000_000_000_000

// CheckAmount fails with ErrValidation when v is negative or above MaxAmount.
func CheckAmount(name string, v int64) error {
	if v < 0 || v > MaxAmount {
		return errors.Wrapf(ErrValidation, "%s=%d must be between 0 and %d", name, v, MaxAmount)
	}
	return nil
}
