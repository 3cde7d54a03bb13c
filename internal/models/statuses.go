package models

type UserRole string
type CardStatus string
type ProgramStatus string
type OrderStatus string
type RechargeCardStatus string
type BalanceRecordType string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleAgent UserRole = "agent"
	UserRoleUser  UserRole = "user"

	CardStatusUnused  CardStatus = "unused"
	CardStatusUsed    CardStatus = "used"
	CardStatusExpired CardStatus = "expired"
	CardStatusBanned  CardStatus = "banned"

	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusInactive ProgramStatus = "inactive"

	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusRefunded OrderStatus = "refunded"

	RechargeCardStatusUnused  RechargeCardStatus = "unused"
	RechargeCardStatusUsed    RechargeCardStatus = "used"
	RechargeCardStatusExpired RechargeCardStatus = "expired"

	BalanceRecordTypeRecharge   BalanceRecordType = "recharge"
	BalanceRecordTypeConsume    BalanceRecordType = "consume"
	BalanceRecordTypeRefund     BalanceRecordType = "refund"
	BalanceRecordTypeCommission BalanceRecordType = "commission"
)

// ValidCardStatus reports whether s is one of the closed card statuses.
// Statuses arrive as free text from the API and are rejected here instead
// of leaking unknown strings into the table.
func ValidCardStatus(s CardStatus) bool {
	switch s {
	case CardStatusUnused, CardStatusUsed, CardStatusExpired, CardStatusBanned:
		return true
	}
	return false
}

// IsCredit reports whether the record type increases the balance.
// Consume is the only debiting type.
func (t BalanceRecordType) IsCredit() bool {
	return t == BalanceRecordTypeRecharge || t == BalanceRecordTypeRefund || t == BalanceRecordTypeCommission
}
