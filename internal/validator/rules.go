package validator

import (
	"cardkey_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the card-domain validation tags.
func registerCustomRules(v *validator.Validate) error {
	// cardstatus: value must be one of the closed card statuses.
	if err := v.RegisterValidation("cardstatus", func(fl validator.FieldLevel) bool {
		return models.ValidCardStatus(models.CardStatus(fl.Field().String()))
	}); err != nil {
		return err
	}

	// durationdays: positive day count or the -1 unlimited sentinel.
	if err := v.RegisterValidation("durationdays", func(fl validator.FieldLevel) bool {
		days := fl.Field().Int()
		return days >= 1 || days == models.UnlimitedDuration
	}); err != nil {
		return err
	}

	return nil
}
