package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardKey_CanTransitionTo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		status  CardStatus
		usedAt  *time.Time
		next    CardStatus
		allowed bool
	}{
		{"unused to used", CardStatusUnused, nil, CardStatusUsed, true},
		{"unused to expired", CardStatusUnused, nil, CardStatusExpired, true},
		{"unused to banned", CardStatusUnused, nil, CardStatusBanned, true},
		{"used to expired", CardStatusUsed, &now, CardStatusExpired, true},
		{"used to banned", CardStatusUsed, &now, CardStatusBanned, true},
		{"used back to unused", CardStatusUsed, &now, CardStatusUnused, false},
		{"expired to banned", CardStatusExpired, &now, CardStatusBanned, true},
		{"expired back to used", CardStatusExpired, &now, CardStatusUsed, false},
		{"expired back to unused", CardStatusExpired, &now, CardStatusUnused, false},
		{"unban never-activated card to unused", CardStatusBanned, nil, CardStatusUnused, true},
		{"unban never-activated card to used", CardStatusBanned, nil, CardStatusUsed, false},
		{"unban activated card to used", CardStatusBanned, &now, CardStatusUsed, true},
		{"unban activated card to unused", CardStatusBanned, &now, CardStatusUnused, false},
		{"same status is a no-op", CardStatusUsed, &now, CardStatusUsed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &CardKey{Status: tt.status, UsedAt: tt.usedAt}
			assert.Equal(t, tt.allowed, card.CanTransitionTo(tt.next))
		})
	}
}

func TestCardKey_MachineCodes(t *testing.T) {
	card := &CardKey{}

	assert.Empty(t, card.MachineCodes())
	assert.False(t, card.HasMachine("m1"))

	require.NoError(t, card.SetMachineCodes([]string{"m1", "m2"}))
	assert.Equal(t, []string{"m1", "m2"}, card.MachineCodes())
	assert.Equal(t, 2, card.UsedMachines)
	assert.True(t, card.HasMachine("m1"))
	assert.False(t, card.HasMachine("m3"))

	require.NoError(t, card.SetMachineCodes(nil))
	assert.Empty(t, card.MachineCodes())
	assert.Equal(t, 0, card.UsedMachines)
}

func TestCardKey_IsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&CardKey{Status: CardStatusExpired}).IsExpired(now))
	assert.True(t, (&CardKey{Status: CardStatusUsed, ExpireAt: &past}).IsExpired(now))
	assert.False(t, (&CardKey{Status: CardStatusUsed, ExpireAt: &future}).IsExpired(now))
	// Unlimited card: no expiry timestamp.
	assert.False(t, (&CardKey{Status: CardStatusUsed}).IsExpired(now))
}

func TestValidCardStatus(t *testing.T) {
	for _, s := range []CardStatus{CardStatusUnused, CardStatusUsed, CardStatusExpired, CardStatusBanned} {
		assert.True(t, ValidCardStatus(s))
	}
	assert.False(t, ValidCardStatus(CardStatus("frozen")))
	assert.False(t, ValidCardStatus(CardStatus("")))
}

func TestBalanceRecordType_IsCredit(t *testing.T) {
	assert.True(t, BalanceRecordTypeRecharge.IsCredit())
	assert.True(t, BalanceRecordTypeRefund.IsCredit())
	assert.True(t, BalanceRecordTypeCommission.IsCredit())
	assert.False(t, BalanceRecordTypeConsume.IsCredit())
}
