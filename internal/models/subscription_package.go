package models

// SubscriptionPackage maps a duration to a price multiplier applied
// against the program's base price at card-creation time. Durations
// without an active package are pro-rated linearly against a 30-day
// baseline.
type SubscriptionPackage struct {
	BaseModel
	Name            string  `gorm:"not null" json:"name"`
	DurationDays    int     `gorm:"not null;index" json:"duration_days"`
	PriceMultiplier float64 `gorm:"not null" json:"price_multiplier"`
	IsActive        bool    `gorm:"not null" json:"is_active"`
	SortOrder       int     `gorm:"default:0" json:"sort_order"`
}
