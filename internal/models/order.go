package models

const PaymentMethodBalance = "balance"

// Order records one card purchase by a non-admin actor. Admin-generated
// cards have no order.
type Order struct {
	BaseModel
	UserID        string      `gorm:"not null;index" json:"user_id"`
	ProgramID     string      `gorm:"not null;index" json:"program_id"`
	CardID        *string     `gorm:"index" json:"card_id"`
	Amount        float64     `gorm:"not null" json:"amount"`
	CostAmount    float64     `gorm:"not null" json:"cost_amount,omitempty"`
	Status        OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod string      `gorm:"type:varchar(20)" json:"payment_method"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID" json:"-"`
}
