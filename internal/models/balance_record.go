package models

// BalanceRecord is an append-only ledger entry. Amount is always a
// positive magnitude; the type carries the sign. Rows are created, never
// updated or deleted.
type BalanceRecord struct {
	BaseModel
	UserID        string            `gorm:"not null;index" json:"user_id"`
	Type          BalanceRecordType `gorm:"type:varchar(20);not null" json:"type"`
	Amount        float64           `gorm:"not null" json:"amount"`
	BalanceBefore float64           `gorm:"not null" json:"balance_before"`
	BalanceAfter  float64           `gorm:"not null" json:"balance_after"`
	OrderID       string            `gorm:"index" json:"order_id,omitempty"`
	Description   string            `json:"description"`
}
