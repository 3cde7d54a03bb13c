package services

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// proRataBaselineDays is the denominator for durations with no active
// package: multiplier = days / 30.
const proRataBaselineDays = 30.0

// CardQuote is the priced outcome of a card-creation request. Settle is
// false when the actor bypasses billing entirely (admins).
type CardQuote struct {
	UnitPrice  float64
	TotalCost  float64
	Multiplier float64
	Settle     bool
}

// PricingPolicy is the single place deciding who pays what for card
// creation. Role checks and multiplier resolution used to be scattered
// per call site in the predecessor design; every creation path consults
// this instead.
type PricingPolicy interface {
	// AuthorizeCardCreation rejects actors who may not generate keys for
	// the program. Admins always may; agents need can_generate_keys;
	// regular users buy for themselves.
	AuthorizeCardCreation(db *gorm.DB, actor *models.UserProfile, programID string) error

	// ResolveMultiplier maps a duration to its price multiplier: an
	// active package wins, otherwise linear pro-rating against the
	// 30-day baseline. Unlimited durations require a package.
	ResolveMultiplier(db *gorm.DB, durationDays int) (float64, error)

	// Quote prices quantity cards of the program for the actor.
	Quote(db *gorm.DB, actor *models.UserProfile, program *models.Program, durationDays, quantity int) (*CardQuote, error)
}

type pricingPolicy struct {
	packageRepo    repositories.SubscriptionPackageRepository
	permissionRepo repositories.AgentPermissionRepository
}

func NewPricingPolicy(
	packageRepo repositories.SubscriptionPackageRepository,
	permissionRepo repositories.AgentPermissionRepository,
) PricingPolicy {
	return &pricingPolicy{
		packageRepo:    packageRepo,
		permissionRepo: permissionRepo,
	}
}

func (p *pricingPolicy) AuthorizeCardCreation(db *gorm.DB, actor *models.UserProfile, programID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsAgent() {
		perm, err := p.permissionRepo.FindByAgentAndProgram(db, actor.ID, programID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrPermissionNotFound) {
				return apperrors.ErrForbidden
			}
			return err
		}
		if !perm.CanGenerateKeys {
			return apperrors.ErrForbidden
		}
	}
	return nil
}

func (p *pricingPolicy) ResolveMultiplier(db *gorm.DB, durationDays int) (float64, error) {
	pkg, err := p.packageRepo.FindActiveByDuration(db, durationDays)
	if err == nil {
		return pkg.PriceMultiplier, nil
	}
	if !apperrors.Is(err, apperrors.ErrPackageNotFound) {
		return 0, err
	}

	if durationDays == models.UnlimitedDuration {
		// No linear baseline makes sense for a permanent card.
		return 0, apperrors.ErrNoPricingForDuration
	}
	return float64(durationDays) / proRataBaselineDays, nil
}

func (p *pricingPolicy) Quote(db *gorm.DB, actor *models.UserProfile, program *models.Program, durationDays, quantity int) (*CardQuote, error) {
	if actor.IsAdmin() {
		return &CardQuote{Settle: false}, nil
	}

	multiplier, err := p.ResolveMultiplier(db, durationDays)
	if err != nil {
		return nil, err
	}

	unit := program.Price * multiplier
	return &CardQuote{
		UnitPrice:  unit,
		TotalCost:  unit * float64(quantity),
		Multiplier: multiplier,
		Settle:     true,
	}, nil
}
