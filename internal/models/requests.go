package models

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	Role     UserRole `json:"role" validate:"required,oneof=admin agent user"`
}

type CreateProgramRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CostPrice   float64 `json:"cost_price" validate:"gte=0"`
	MaxMachines int     `json:"max_machines" validate:"omitempty,min=1"`
	Note        string  `json:"note" validate:"max=500"`
}

type UpdateProgramRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=500"`
	Price       *float64       `json:"price" validate:"omitempty,gt=0"`
	CostPrice   *float64       `json:"cost_price" validate:"omitempty,gte=0"`
	Status      *ProgramStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	MaxMachines *int           `json:"max_machines" validate:"omitempty,min=1"`
	Note        *string        `json:"note" validate:"omitempty,max=500"`
}

type CreateCardsRequest struct {
	ProgramID    string `json:"program_id" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"required,durationdays"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=500"`
	Prefix       string `json:"prefix" validate:"omitempty,alphanum,max=8"`
}

type EditCardRequest struct {
	DurationDays *int        `json:"duration_days" validate:"omitempty,durationdays"`
	Status       *CardStatus `json:"status" validate:"omitempty,cardstatus"`
	MaxMachines  *int        `json:"max_machines" validate:"omitempty,min=1"`
}

type BatchDeleteCardsRequest struct {
	CardIDs []string `json:"card_ids" validate:"required,min=1,dive,required"`
}

type ActivateCardRequest struct {
	Code        string `json:"code" validate:"required"`
	MachineCode string `json:"machine_code" validate:"required,max=128"`
}

type GrantPermissionRequest struct {
	AgentID         string `json:"agent_id" validate:"required"`
	CanGenerateKeys bool   `json:"can_generate_keys"`
	CanViewKeys     bool   `json:"can_view_keys"`
	CanManageUsers  bool   `json:"can_manage_users"`
}

type CreatePackageRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	DurationDays    int     `json:"duration_days" validate:"required,durationdays"`
	PriceMultiplier float64 `json:"price_multiplier" validate:"required,gt=0"`
	// nil means active; an explicit false creates a disabled tier.
	IsActive  *bool `json:"is_active"`
	SortOrder int   `json:"sort_order"`
}

type UpdatePackageRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=100"`
	DurationDays    *int     `json:"duration_days" validate:"omitempty,durationdays"`
	PriceMultiplier *float64 `json:"price_multiplier" validate:"omitempty,gt=0"`
	IsActive        *bool    `json:"is_active"`
	SortOrder       *int     `json:"sort_order"`
}

type CreateRechargeCardsRequest struct {
	Amount   float64    `json:"amount" validate:"required,gt=0"`
	Quantity int        `json:"quantity" validate:"required,min=1,max=200"`
	ExpireAt *time.Time `json:"expire_at"`
	Note     string     `json:"note" validate:"max=200"`
}

type RedeemRechargeCardRequest struct {
	Code string `json:"code" validate:"required"`
}

type AdjustBalanceRequest struct {
	UserID      string            `json:"user_id" validate:"required"`
	Type        BalanceRecordType `json:"type" validate:"required,oneof=recharge consume"`
	Amount      float64           `json:"amount" validate:"required,gt=0"`
	Description string            `json:"description" validate:"required,max=200"`
}

type CardListFilter struct {
	ProgramID string     `form:"program_id"`
	Status    CardStatus `form:"status"`
	UserID    string     `form:"user_id"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}
