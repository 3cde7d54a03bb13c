package models

import "time"

type UserProfile struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	// Balance is kept non-negative by the settlement paths, not by the
	// schema. Every mutation is paired with a BalanceRecord.
	Balance      float64    `gorm:"not null;default:0" json:"balance"`
	LastActiveAt *time.Time `json:"last_active_at"`

	// Relations
	Cards       []CardKey         `gorm:"foreignKey:UserID" json:"-"`
	Permissions []AgentPermission `gorm:"foreignKey:AgentID" json:"-"`
}

func (u *UserProfile) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *UserProfile) IsAgent() bool {
	return u.Role == UserRoleAgent
}
