package services

import (
	"testing"
	"time"

	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCards_AdminPaysNothing(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)

	result, err := env.cards.CreateCards(env.db, admin.ID, &models.CreateCardsRequest{
		ProgramID:    program.ID,
		DurationDays: 30,
		Quantity:     5,
	})
	require.NoError(t, err)

	assert.Len(t, result.Cards, 5)
	assert.Equal(t, 0.0, result.TotalCost)
	for _, card := range result.Cards {
		assert.Equal(t, models.CardStatusUnused, card.Status)
		assert.Nil(t, card.UserID)
		assert.NotEmpty(t, card.Code)
	}

	// No orders and no ledger rows for admin-minted cards.
	orders, _, err := env.orderRepo.FindByUser(env.db, admin.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, env.balanceRecords(t, admin.ID))
}

func TestCreateCards_UserPaysFromBalance(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 500)
	program := env.seedProgram(t, admin.ID, 100)

	result, err := env.cards.CreateCards(env.db, user.ID, &models.CreateCardsRequest{
		ProgramID:    program.ID,
		DurationDays: 30,
		Quantity:     3,
	})
	require.NoError(t, err)

	assert.Len(t, result.Cards, 3)
	assert.InDelta(t, 300.0, result.TotalCost, 0.001)
	assert.InDelta(t, 200.0, env.userBalance(t, user.ID), 0.001)

	for _, card := range result.Cards {
		require.NotNil(t, card.UserID)
		assert.Equal(t, user.ID, *card.UserID)
	}

	// One order per card, one ledger row for the whole purchase.
	orders, _, err := env.orderRepo.FindByUser(env.db, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	for _, order := range orders {
		assert.Equal(t, models.OrderStatusPaid, order.Status)
		assert.Equal(t, models.PaymentMethodBalance, order.PaymentMethod)
		assert.NotNil(t, order.CardID)
	}

	records := env.balanceRecords(t, user.ID)
	require.Len(t, records, 1)
	assert.Equal(t, models.BalanceRecordTypeConsume, records[0].Type)
	assert.InDelta(t, 300.0, records[0].Amount, 0.001)
	// Multi-card purchase: no single order to reference.
	assert.Empty(t, records[0].OrderID)
}

func TestCreateCards_SinglePurchaseLinksOrder(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 500)
	program := env.seedProgram(t, admin.ID, 100)

	_, err := env.cards.CreateCards(env.db, user.ID, &models.CreateCardsRequest{
		ProgramID:    program.ID,
		DurationDays: 30,
		Quantity:     1,
	})
	require.NoError(t, err)

	records := env.balanceRecords(t, user.ID)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].OrderID)
}

func TestCreateCards_InsufficientBalanceRollsBack(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 50)
	program := env.seedProgram(t, admin.ID, 100)

	_, err := env.cards.CreateCards(env.db, user.ID, &models.CreateCardsRequest{
		ProgramID:    program.ID,
		DurationDays: 30,
		Quantity:     2,
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	// The transaction rolled back: no cards, no orders, balance intact.
	cards, total, err := env.cardRepo.List(env.db, models.CardListFilter{ProgramID: program.ID})
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Zero(t, total)
	assert.Equal(t, 50.0, env.userBalance(t, user.ID))
}

func TestCreateCards_PrefixAppearsInCodes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)

	result, err := env.cards.CreateCards(env.db, admin.ID, &models.CreateCardsRequest{
		ProgramID:    program.ID,
		DurationDays: 30,
		Quantity:     2,
		Prefix:       "vip",
	})
	require.NoError(t, err)
	for _, card := range result.Cards {
		assert.Contains(t, card.Code, "VIP-")
	}
}

func TestCreateCards_AgentNeedsGrant(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	agent := env.seedUser(t, models.UserRoleAgent, 500)
	program := env.seedProgram(t, admin.ID, 100)

	req := &models.CreateCardsRequest{ProgramID: program.ID, DurationDays: 30, Quantity: 1}

	_, err := env.cards.CreateCards(env.db, agent.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	env.grantPermission(t, agent.ID, program.ID, true, false)
	result, err := env.cards.CreateCards(env.db, agent.ID, req)
	require.NoError(t, err)
	assert.Len(t, result.Cards, 1)
	// Agents settle like regular users.
	assert.InDelta(t, 400.0, env.userBalance(t, agent.ID), 0.001)
}

func TestEditCard_StatusTransitionEnforced(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	now := time.Now()
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUsed,
		DurationDays: 30,
		UsedAt:       &now,
	})

	// used -> unused is blocked.
	unused := models.CardStatusUnused
	_, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{Status: &unused})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)

	// used -> banned is allowed.
	banned := models.CardStatusBanned
	result, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{Status: &banned})
	require.NoError(t, err)
	assert.Equal(t, models.CardStatusBanned, result.Card.Status)

	// banned -> used again: the card had been activated.
	used := models.CardStatusUsed
	result, err = env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{Status: &used})
	require.NoError(t, err)
	assert.Equal(t, models.CardStatusUsed, result.Card.Status)
}

func TestEditCard_LengtheningChargesOwner(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 500)
	program := env.seedProgram(t, admin.ID, 90)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		UserID:       &user.ID,
	})

	newDays := 60
	result, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{DurationDays: &newDays})
	require.NoError(t, err)

	assert.Equal(t, 60, result.Card.DurationDays)
	assert.InDelta(t, -90.0, result.BalanceChange, 0.001)
	assert.InDelta(t, 410.0, env.userBalance(t, user.ID), 0.001)

	records := env.balanceRecords(t, user.ID)
	require.Len(t, records, 1)
	assert.Equal(t, models.BalanceRecordTypeConsume, records[0].Type)
}

func TestEditCard_LengtheningInsufficientBalanceRollsBack(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 10)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		UserID:       &user.ID,
	})

	// 30 -> 60 days at price 100 would charge 100; the owner has 10.
	newDays := 60
	_, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{DurationDays: &newDays})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	reloaded, err := env.cardRepo.FindByID(env.db, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, reloaded.DurationDays)
	assert.InDelta(t, 10.0, env.userBalance(t, user.ID), 0.001)
	assert.Empty(t, env.balanceRecords(t, user.ID))
}

func TestEditCard_ShorteningRefundsOwner(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 100)
	program := env.seedProgram(t, admin.ID, 120)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 60,
		UserID:       &user.ID,
	})

	newDays := 30
	result, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{DurationDays: &newDays})
	require.NoError(t, err)

	assert.InDelta(t, 60.0, result.BalanceChange, 0.001)
	assert.InDelta(t, 160.0, env.userBalance(t, user.ID), 0.001)

	records := env.balanceRecords(t, user.ID)
	require.Len(t, records, 1)
	assert.Equal(t, models.BalanceRecordTypeRefund, records[0].Type)
}

func TestEditCard_DurationChangeShiftsExpiry(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 90)
	usedAt := time.Now().Add(-24 * time.Hour)
	expireAt := usedAt.Add(30 * 24 * time.Hour)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUsed,
		DurationDays: 30,
		UsedAt:       &usedAt,
		ExpireAt:     &expireAt,
	})

	newDays := 60
	result, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{DurationDays: &newDays})
	require.NoError(t, err)

	require.NotNil(t, result.Card.ExpireAt)
	assert.WithinDuration(t, expireAt.Add(30*24*time.Hour), *result.Card.ExpireAt, time.Second)
}

func TestEditCard_UnlimitedDurationChangeRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: models.UnlimitedDuration,
	})

	newDays := 30
	_, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{DurationDays: &newDays})
	assert.Error(t, err)
}

func TestEditCard_MaxMachinesAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	agent := env.seedUser(t, models.UserRoleAgent, 0)
	program := env.seedProgram(t, admin.ID, 100)
	env.grantPermission(t, agent.ID, program.ID, true, true)

	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
	})

	five := 5
	_, err := env.cards.EditCard(env.db, agent.ID, card.ID, &models.EditCardRequest{MaxMachines: &five})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	result, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{MaxMachines: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Card.MaxMachines)
}

func TestEditCard_MaxMachinesBelowBindingsRejected(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)

	card := &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUsed,
		DurationDays: 30,
		MaxMachines:  3,
	}
	require.NoError(t, card.SetMachineCodes([]string{"m1", "m2"}))
	env.seedCard(t, card)

	one := 1
	_, err := env.cards.EditCard(env.db, admin.ID, card.ID, &models.EditCardRequest{MaxMachines: &one})
	assert.Error(t, err)
}

func TestDeleteCard_UnusedOwnedRefundsFullPrice(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		UserID:       &user.ID,
	})

	result, err := env.cards.DeleteCard(env.db, admin.ID, card.ID)
	require.NoError(t, err)
	assert.True(t, result.Refunded)
	assert.Equal(t, 100.0, result.RefundAmount)
	assert.Equal(t, 100.0, env.userBalance(t, user.ID))

	_, err = env.cardRepo.FindByID(env.db, card.ID)
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
}

func TestDeleteCard_UsedCardProRatedRefund(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 0)
	program := env.seedProgram(t, admin.ID, 100)

	usedAt := time.Now().Add(-15 * 24 * time.Hour)
	expireAt := usedAt.Add(30 * 24 * time.Hour)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUsed,
		DurationDays: 30,
		UserID:       &user.ID,
		UsedAt:       &usedAt,
		ExpireAt:     &expireAt,
	})

	result, err := env.cards.DeleteCard(env.db, admin.ID, card.ID)
	require.NoError(t, err)
	assert.True(t, result.Refunded)
	assert.InDelta(t, 50.0, result.RefundAmount, 0.1)
}

func TestDeleteCard_NoRefundForUnownedCard(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
	})

	result, err := env.cards.DeleteCard(env.db, admin.ID, card.ID)
	require.NoError(t, err)
	assert.False(t, result.Refunded)
	assert.Equal(t, 0.0, result.RefundAmount)
}

func TestDeleteCardsBatch_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 0)
	program := env.seedProgram(t, admin.ID, 100)

	card1 := env.seedCard(t, &models.CardKey{
		ProgramID: program.ID, Status: models.CardStatusUnused, DurationDays: 30, UserID: &user.ID,
	})
	card2 := env.seedCard(t, &models.CardKey{
		ProgramID: program.ID, Status: models.CardStatusUnused, DurationDays: 30, UserID: &user.ID,
	})

	result, err := env.cards.DeleteCardsBatch(env.db, admin.ID, []string{card1.ID, "missing-id", card2.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.InDelta(t, 200.0, result.TotalRefunded, 0.001)
	assert.Equal(t, 200.0, env.userBalance(t, user.ID))
}

func TestClearMachineBindings(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	user := env.seedUser(t, models.UserRoleUser, 0)
	program := env.seedProgram(t, admin.ID, 100)

	card := &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUsed,
		DurationDays: 30,
	}
	require.NoError(t, card.SetMachineCodes([]string{"m1", "m2"}))
	env.seedCard(t, card)

	// Non-admin is rejected.
	err := env.cards.ClearMachineBindings(env.db, user.ID, card.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, env.cards.ClearMachineBindings(env.db, admin.ID, card.ID))

	reloaded, err := env.cardRepo.FindByID(env.db, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.UsedMachines)
	assert.Empty(t, reloaded.MachineCodes())
	// Clearing bindings does not reset activation.
	assert.Equal(t, models.CardStatusUsed, reloaded.Status)
}

func TestActivateCard_FirstUseStartsWindow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		MaxMachines:  2,
	})

	activated, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)

	assert.Equal(t, models.CardStatusUsed, activated.Status)
	require.NotNil(t, activated.UsedAt)
	require.NotNil(t, activated.ExpireAt)
	assert.WithinDuration(t, activated.UsedAt.Add(30*24*time.Hour), *activated.ExpireAt, time.Second)
	assert.Equal(t, []string{"machine-1"}, activated.MachineCodes())
}

func TestActivateCard_UnlimitedNeverExpires(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: models.UnlimitedDuration,
	})

	activated, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)
	assert.Nil(t, activated.ExpireAt)
}

func TestActivateCard_RepeatMachineIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		MaxMachines:  1,
	})

	_, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)

	// Same device again: fine even though the card is at capacity.
	activated, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)
	assert.Equal(t, 1, activated.UsedMachines)
}

func TestActivateCard_MachineLimit(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		MaxMachines:  1,
	})

	_, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)

	_, err = env.cards.ActivateCard(env.db, card.Code, "machine-2")
	assert.ErrorIs(t, err, apperrors.ErrMachineLimitReached)
}

func TestActivateCard_SecondMachineWithinLimit(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)
	card := env.seedCard(t, &models.CardKey{
		ProgramID:    program.ID,
		Status:       models.CardStatusUnused,
		DurationDays: 30,
		MaxMachines:  2,
	})

	_, err := env.cards.ActivateCard(env.db, card.Code, "machine-1")
	require.NoError(t, err)

	activated, err := env.cards.ActivateCard(env.db, card.Code, "machine-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"machine-1", "machine-2"}, activated.MachineCodes())
}

func TestActivateCard_BannedAndExpired(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	program := env.seedProgram(t, admin.ID, 100)

	banned := env.seedCard(t, &models.CardKey{
		ProgramID: program.ID, Status: models.CardStatusBanned, DurationDays: 30,
	})
	_, err := env.cards.ActivateCard(env.db, banned.Code, "m1")
	assert.ErrorIs(t, err, apperrors.ErrCardBanned)

	expired := env.seedCard(t, &models.CardKey{
		ProgramID: program.ID, Status: models.CardStatusExpired, DurationDays: 30,
	})
	_, err = env.cards.ActivateCard(env.db, expired.Code, "m1")
	assert.ErrorIs(t, err, apperrors.ErrCardExpired)

	// Status still says used but the window has passed.
	usedAt := time.Now().Add(-40 * 24 * time.Hour)
	expireAt := usedAt.Add(30 * 24 * time.Hour)
	overdue := env.seedCard(t, &models.CardKey{
		ProgramID: program.ID, Status: models.CardStatusUsed, DurationDays: 30,
		UsedAt: &usedAt, ExpireAt: &expireAt, MaxMachines: 2,
	})
	_, err = env.cards.ActivateCard(env.db, overdue.Code, "m1")
	assert.ErrorIs(t, err, apperrors.ErrCardExpired)
}

func TestActivateCard_UnknownCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cards.ActivateCard(env.db, "NO-SUCH-CODE", "m1")
	assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
}

func TestListCards_RoleScoping(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.UserRoleAdmin, 0)
	agent := env.seedUser(t, models.UserRoleAgent, 0)
	user := env.seedUser(t, models.UserRoleUser, 0)
	program := env.seedProgram(t, admin.ID, 100)

	env.seedCard(t, &models.CardKey{ProgramID: program.ID, Status: models.CardStatusUnused, DurationDays: 30})
	env.seedCard(t, &models.CardKey{ProgramID: program.ID, Status: models.CardStatusUnused, DurationDays: 30, UserID: &user.ID})

	// Admin sees everything.
	cards, total, err := env.cards.ListCards(env.db, admin.ID, models.CardListFilter{})
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.EqualValues(t, 2, total)

	// Regular user only sees owned cards regardless of the filter.
	cards, _, err = env.cards.ListCards(env.db, user.ID, models.CardListFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.NotNil(t, cards[0].UserID)
	assert.Equal(t, user.ID, *cards[0].UserID)

	// Agent without can_view_keys is rejected.
	_, _, err = env.cards.ListCards(env.db, agent.ID, models.CardListFilter{ProgramID: program.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	env.grantPermission(t, agent.ID, program.ID, false, true)
	cards, _, err = env.cards.ListCards(env.db, agent.ID, models.CardListFilter{ProgramID: program.ID})
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}
