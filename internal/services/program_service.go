package services

import (
	"fmt"
	"time"

	"cardkey_backend/internal/keygen"
	"cardkey_backend/internal/logger"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DeleteProgramResult struct {
	DeletedCards  int     `json:"deleted_cards"`
	RefundedCards int     `json:"refunded_cards"`
	TotalRefunded float64 `json:"total_refunded"`
}

type ProgramService interface {
	Create(db *gorm.DB, actorID string, req *models.CreateProgramRequest) (*models.Program, error)
	Update(db *gorm.DB, actorID, programID string, req *models.UpdateProgramRequest) (*models.Program, error)
	Get(db *gorm.DB, actorID, programID string) (*models.Program, error)
	List(db *gorm.DB, actorID string, page, pageSize int) ([]models.Program, int64, error)

	// DeleteProgram removes the program and everything hanging off it in
	// one transaction: owned cards are refunded first, then cards,
	// permissions and the program row are deleted together.
	DeleteProgram(db *gorm.DB, actorID, programID string) (*DeleteProgramResult, error)

	GrantPermission(db *gorm.DB, actorID, programID string, req *models.GrantPermissionRequest) (*models.AgentPermission, error)
	RevokePermission(db *gorm.DB, actorID, programID, agentID string) error
	ListPermissions(db *gorm.DB, actorID, programID string) ([]models.AgentPermission, error)
}

type programService struct {
	programRepo repositories.ProgramRepository
	cardRepo    repositories.CardKeyRepository
	userRepo    repositories.UserRepository
	permRepo    repositories.AgentPermissionRepository
	balance     BalanceService
}

func NewProgramService(
	programRepo repositories.ProgramRepository,
	cardRepo repositories.CardKeyRepository,
	userRepo repositories.UserRepository,
	permRepo repositories.AgentPermissionRepository,
	balance BalanceService,
) ProgramService {
	return &programService{
		programRepo: programRepo,
		cardRepo:    cardRepo,
		userRepo:    userRepo,
		permRepo:    permRepo,
		balance:     balance,
	}
}

func (s *programService) Create(db *gorm.DB, actorID string, req *models.CreateProgramRequest) (*models.Program, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsAgent() {
		return nil, apperrors.ErrForbidden
	}

	maxMachines := req.MaxMachines
	if maxMachines <= 0 {
		maxMachines = 1
	}

	program := &models.Program{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CostPrice:   req.CostPrice,
		Status:      models.ProgramStatusActive,
		APIKey:      keygen.GenerateAPIKey(),
		MaxMachines: maxMachines,
		Note:        req.Note,
		CreatedBy:   actor.ID,
	}
	if err := s.programRepo.Create(db, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Update(db *gorm.DB, actorID, programID string, req *models.UpdateProgramRequest) (*models.Program, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}

	program, err := s.programRepo.FindByID(db, programID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && program.CreatedBy != actor.ID {
		return nil, apperrors.ErrForbidden
	}

	// The API key survives every edit; regeneration would break deployed
	// clients silently.
	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Price != nil {
		program.Price = *req.Price
	}
	if req.CostPrice != nil {
		program.CostPrice = *req.CostPrice
	}
	if req.Status != nil {
		program.Status = *req.Status
	}
	if req.MaxMachines != nil {
		program.MaxMachines = *req.MaxMachines
	}
	if req.Note != nil {
		program.Note = *req.Note
	}

	if err := s.programRepo.Update(db, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Get(db *gorm.DB, actorID, programID string) (*models.Program, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	program, err := s.programRepo.FindByID(db, programID)
	if err != nil {
		return nil, err
	}
	sanitizeProgram(program, actor)
	return program, nil
}

func (s *programService) List(db *gorm.DB, actorID string, page, pageSize int) ([]models.Program, int64, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	var programs []models.Program
	var total int64
	if actor.IsAdmin() {
		programs, total, err = s.programRepo.FindAll(db, pageSize, offset)
	} else {
		programs, total, err = s.programRepo.FindByCreator(db, actor.ID, pageSize, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	for i := range programs {
		sanitizeProgram(&programs[i], actor)
	}
	return programs, total, nil
}

func (s *programService) DeleteProgram(db *gorm.DB, actorID, programID string) (*DeleteProgramResult, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	start := time.Now()
	result := &DeleteProgramResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		program, err := s.programRepo.FindByID(tx, programID)
		if err != nil {
			return err
		}

		cards, err := s.cardRepo.FindByProgram(tx, program.ID)
		if err != nil {
			return fmt.Errorf("loading cards for program deletion: %w", err)
		}

		now := time.Now()
		for i := range cards {
			card := &cards[i]
			refund := DeletionRefund(card, program.Price, now)
			if refund <= 0 {
				continue
			}
			desc := fmt.Sprintf("程序下架退款（%s / %s）", program.Name, card.Code)
			if _, err := s.balance.Apply(tx, *card.UserID, models.BalanceRecordTypeRefund, refund, "", desc); err != nil {
				return fmt.Errorf("refunding card %s: %w", card.Code, err)
			}
			result.RefundedCards++
			result.TotalRefunded += refund
		}

		if err := s.cardRepo.DeleteByProgram(tx, program.ID); err != nil {
			return fmt.Errorf("deleting cards: %w", err)
		}
		if err := s.permRepo.DeleteByProgram(tx, program.ID); err != nil {
			return fmt.Errorf("deleting agent permissions: %w", err)
		}
		if err := s.programRepo.Delete(tx, program.ID); err != nil {
			return fmt.Errorf("deleting program: %w", err)
		}

		result.DeletedCards = len(cards)
		return nil
	})
	logger.SettlementLog("delete_program", actorID, result.TotalRefunded, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *programService) GrantPermission(db *gorm.DB, actorID, programID string, req *models.GrantPermissionRequest) (*models.AgentPermission, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.programRepo.FindByID(db, programID); err != nil {
		return nil, err
	}
	agent, err := s.userRepo.FindByID(db, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsAgent() {
		return nil, apperrors.NewBadRequestError("Target user is not an agent")
	}

	// Re-granting updates the existing row instead of violating the
	// unique agent+program index.
	perm, err := s.permRepo.FindByAgentAndProgram(db, req.AgentID, programID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrPermissionNotFound) {
			return nil, err
		}
		perm = &models.AgentPermission{
			AgentID:   req.AgentID,
			ProgramID: programID,
		}
		perm.CanGenerateKeys = req.CanGenerateKeys
		perm.CanViewKeys = req.CanViewKeys
		perm.CanManageUsers = req.CanManageUsers
		if err := s.permRepo.Create(db, perm); err != nil {
			return nil, err
		}
		return perm, nil
	}

	perm.CanGenerateKeys = req.CanGenerateKeys
	perm.CanViewKeys = req.CanViewKeys
	perm.CanManageUsers = req.CanManageUsers
	if err := s.permRepo.Update(db, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

func (s *programService) RevokePermission(db *gorm.DB, actorID, programID, agentID string) error {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return s.permRepo.Delete(db, agentID, programID)
}

func (s *programService) ListPermissions(db *gorm.DB, actorID, programID string) ([]models.AgentPermission, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.permRepo.FindByProgram(db, programID)
}

// sanitizeProgram strips billing internals from responses for anyone who
// is not an admin.
func sanitizeProgram(program *models.Program, actor *models.UserProfile) {
	if actor.IsAdmin() {
		return
	}
	program.CostPrice = 0
	if program.CreatedBy != actor.ID {
		program.APIKey = ""
	}
}
