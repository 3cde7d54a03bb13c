package models

import "time"

// RechargeCard is a one-time-use code redeemable for a fixed balance
// credit.
type RechargeCard struct {
	BaseModel
	Code     string             `gorm:"uniqueIndex;not null" json:"code"`
	Amount   float64            `gorm:"not null" json:"amount"`
	Status   RechargeCardStatus `gorm:"type:varchar(20);default:'unused'" json:"status"`
	ExpireAt *time.Time         `json:"expire_at"`
	UsedBy   *string            `gorm:"index" json:"used_by"`
	UsedAt   *time.Time         `json:"used_at"`
	Note     string             `json:"note"`
}
