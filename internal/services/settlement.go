package services

import (
	"time"

	"cardkey_backend/internal/models"
)

// Settlement arithmetic for card lifecycle operations. Kept as pure
// functions so the rules are testable without a database.

// DeletionRefund computes what deleting a card returns to its owner.
//
//   - unused, owned: the full program price.
//   - used, unexpired: pro-rated by remaining time over the granted
//     window (expire_at - used_at, falling back to created_at). Activated
//     unlimited cards have no granted window and refund 0.
//   - everything else (expired, banned, unowned): 0.
func DeletionRefund(card *models.CardKey, price float64, now time.Time) float64 {
	if card.UserID == nil {
		return 0
	}

	switch card.Status {
	case models.CardStatusUnused:
		return price
	case models.CardStatusUsed:
		if card.ExpireAt == nil {
			return 0
		}
		if !card.ExpireAt.After(now) {
			return 0
		}

		start := card.CreatedAt
		if card.UsedAt != nil {
			start = *card.UsedAt
		}
		total := card.ExpireAt.Sub(start)
		if total <= 0 {
			return 0
		}

		remaining := card.ExpireAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		refund := price * (remaining.Seconds() / total.Seconds())
		if refund > price {
			refund = price
		}
		return refund
	}
	return 0
}

// DurationChangeBalance computes the owner's balance delta for changing a
// card from oldDays to newDays: -(new-old) * (price/old). Lengthening is
// a charge (negative), shortening is a refund (positive). Both durations
// must be positive; the unlimited sentinel is rejected before this point.
func DurationChangeBalance(oldDays, newDays int, price float64) float64 {
	return -float64(newDays-oldDays) * (price / float64(oldDays))
}

// ExpiryFor returns the expiry timestamp for a card activated at usedAt,
// or nil for unlimited cards.
func ExpiryFor(usedAt time.Time, durationDays int) *time.Time {
	if durationDays == models.UnlimitedDuration {
		return nil
	}
	expireAt := usedAt.Add(time.Duration(durationDays) * 24 * time.Hour)
	return &expireAt
}
