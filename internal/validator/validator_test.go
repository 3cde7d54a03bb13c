package validator

import (
	"testing"

	"cardkey_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CreateCardsRequest(t *testing.T) {
	v := New()

	valid := &models.CreateCardsRequest{
		ProgramID:    "prog-1",
		DurationDays: 30,
		Quantity:     10,
	}
	assert.NoError(t, v.Validate(valid))

	unlimited := &models.CreateCardsRequest{
		ProgramID:    "prog-1",
		DurationDays: models.UnlimitedDuration,
		Quantity:     1,
	}
	assert.NoError(t, v.Validate(unlimited))
}

func TestValidate_DurationDaysRule(t *testing.T) {
	v := New()

	bad := &models.CreateCardsRequest{
		ProgramID:    "prog-1",
		DurationDays: -5,
		Quantity:     1,
	}
	err := v.Validate(bad)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Field names are reported with their JSON tags.
	assert.Contains(t, vErr.Errors, "duration_days")
}

func TestValidate_CardStatusRule(t *testing.T) {
	v := New()

	frozen := models.CardStatus("frozen")
	err := v.Validate(&models.EditCardRequest{Status: &frozen})
	require.Error(t, err)

	banned := models.CardStatusBanned
	assert.NoError(t, v.Validate(&models.EditCardRequest{Status: &banned}))
}

func TestValidate_QuantityBounds(t *testing.T) {
	v := New()

	tooMany := &models.CreateCardsRequest{
		ProgramID:    "prog-1",
		DurationDays: 30,
		Quantity:     501,
	}
	assert.Error(t, v.Validate(tooMany))
}

func TestValidate_PrefixMustBeAlphanumeric(t *testing.T) {
	v := New()

	bad := &models.CreateCardsRequest{
		ProgramID:    "prog-1",
		DurationDays: 30,
		Quantity:     1,
		Prefix:       "bad prefix!",
	}
	assert.Error(t, v.Validate(bad))
}
