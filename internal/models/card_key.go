package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// UnlimitedDuration is the sentinel duration for permanent cards.
const UnlimitedDuration = -1

type CardKey struct {
	BaseModel
	Code         string     `gorm:"uniqueIndex;not null" json:"code"`
	ProgramID    string     `gorm:"not null;index" json:"program_id"`
	Status       CardStatus `gorm:"type:varchar(20);default:'unused'" json:"status"`
	DurationDays int        `gorm:"not null" json:"duration_days"`
	ExpireAt     *time.Time `json:"expire_at"`
	UsedAt       *time.Time `json:"used_at"`
	UserID       *string    `gorm:"index" json:"user_id"`
	MaxMachines  int        `gorm:"default:1" json:"max_machines"`
	UsedMachines int        `gorm:"default:0" json:"used_machines"`
	// JSON array of opaque device identifiers, len <= MaxMachines.
	BoundMachineCodes datatypes.JSON `json:"bound_machine_codes"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID" json:"-"`
}

// CanTransitionTo encodes the card status machine. Used is a one-way gate:
// an activated card never goes back to unused. Banned cards are unbanned to
// whatever side of the gate they were on.
func (c *CardKey) CanTransitionTo(next CardStatus) bool {
	if next == c.Status {
		return true
	}
	switch c.Status {
	case CardStatusUnused:
		return next == CardStatusUsed || next == CardStatusExpired || next == CardStatusBanned
	case CardStatusUsed:
		return next == CardStatusExpired || next == CardStatusBanned
	case CardStatusExpired:
		return next == CardStatusBanned
	case CardStatusBanned:
		if next == CardStatusUnused {
			return c.UsedAt == nil
		}
		return next == CardStatusUsed && c.UsedAt != nil
	}
	return false
}

// MachineCodes decodes the bound device identifiers.
func (c *CardKey) MachineCodes() []string {
	if len(c.BoundMachineCodes) == 0 {
		return nil
	}
	var codes []string
	if err := json.Unmarshal(c.BoundMachineCodes, &codes); err != nil {
		return nil
	}
	return codes
}

// SetMachineCodes encodes codes and keeps UsedMachines in sync with the
// list length.
func (c *CardKey) SetMachineCodes(codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	c.BoundMachineCodes = datatypes.JSON(raw)
	c.UsedMachines = len(codes)
	return nil
}

// HasMachine reports whether the device identifier is already bound.
func (c *CardKey) HasMachine(machineCode string) bool {
	for _, code := range c.MachineCodes() {
		if code == machineCode {
			return true
		}
	}
	return false
}

// IsExpired reports whether the card is past its expiry timestamp,
// regardless of what the status column says.
func (c *CardKey) IsExpired(now time.Time) bool {
	if c.Status == CardStatusExpired {
		return true
	}
	return c.ExpireAt != nil && !c.ExpireAt.After(now)
}
