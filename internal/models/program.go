package models

type Program struct {
	BaseModel
	Name        string        `gorm:"not null;index" json:"name"`
	Description string        `json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	CostPrice   float64       `gorm:"not null" json:"cost_price,omitempty"`
	Status      ProgramStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	APIKey      string        `gorm:"uniqueIndex;not null" json:"api_key,omitempty"`
	MaxMachines int           `gorm:"default:1" json:"max_machines"`
	Note        string        `json:"note"`
	CreatedBy   string        `gorm:"index" json:"created_by"`
}

// AgentPermission grants an agent capability flags scoped to one program.
// Rows are removed together with the program.
type AgentPermission struct {
	BaseModel
	AgentID         string `gorm:"not null;index:idx_agent_program,unique" json:"agent_id"`
	ProgramID       string `gorm:"not null;index:idx_agent_program,unique" json:"program_id"`
	CanGenerateKeys bool   `gorm:"default:false" json:"can_generate_keys"`
	CanViewKeys     bool   `gorm:"default:false" json:"can_view_keys"`
	CanManageUsers  bool   `gorm:"default:false" json:"can_manage_users"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID" json:"-"`
}
