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

type CreateCardsResult struct {
	Cards     []models.CardKey `json:"cards"`
	TotalCost float64          `json:"total_cost"`
}

type EditCardResult struct {
	Card          *models.CardKey `json:"card"`
	BalanceChange float64         `json:"balance_change"`
}

type DeleteCardResult struct {
	Refunded     bool    `json:"refunded"`
	RefundAmount float64 `json:"refund_amount"`
}

type BatchDeleteResult struct {
	SuccessCount  int     `json:"success_count"`
	ErrorCount    int     `json:"error_count"`
	TotalRefunded float64 `json:"total_refunded"`
}

// CardService owns the card-key lifecycle. Every operation that touches a
// balance runs its whole settlement sequence inside one transaction.
type CardService interface {
	CreateCards(db *gorm.DB, actorID string, req *models.CreateCardsRequest) (*CreateCardsResult, error)
	EditCard(db *gorm.DB, actorID, cardID string, req *models.EditCardRequest) (*EditCardResult, error)
	DeleteCard(db *gorm.DB, actorID, cardID string) (*DeleteCardResult, error)
	DeleteCardsBatch(db *gorm.DB, actorID string, cardIDs []string) (*BatchDeleteResult, error)
	ClearMachineBindings(db *gorm.DB, actorID, cardID string) error

	// ActivateCard is the consumer-side redemption: binds the device and,
	// on first use, starts the validity window.
	ActivateCard(db *gorm.DB, code, machineCode string) (*models.CardKey, error)

	GetCard(db *gorm.DB, actorID, cardID string) (*models.CardKey, error)
	ListCards(db *gorm.DB, actorID string, filter models.CardListFilter) ([]models.CardKey, int64, error)
}

type cardService struct {
	cardRepo    repositories.CardKeyRepository
	programRepo repositories.ProgramRepository
	userRepo    repositories.UserRepository
	orderRepo   repositories.OrderRepository
	permRepo    repositories.AgentPermissionRepository
	pricing     PricingPolicy
	balance     BalanceService

	defaultMaxMachines int
}

func NewCardService(
	cardRepo repositories.CardKeyRepository,
	programRepo repositories.ProgramRepository,
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	permRepo repositories.AgentPermissionRepository,
	pricing PricingPolicy,
	balance BalanceService,
	defaultMaxMachines int,
) CardService {
	if defaultMaxMachines <= 0 {
		defaultMaxMachines = 1
	}
	return &cardService{
		cardRepo:           cardRepo,
		programRepo:        programRepo,
		userRepo:           userRepo,
		orderRepo:          orderRepo,
		permRepo:           permRepo,
		pricing:            pricing,
		balance:            balance,
		defaultMaxMachines: defaultMaxMachines,
	}
}

func (s *cardService) CreateCards(db *gorm.DB, actorID string, req *models.CreateCardsRequest) (*CreateCardsResult, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}

	program, err := s.programRepo.FindByID(db, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && program.Status != models.ProgramStatusActive {
		return nil, apperrors.ErrProgramNotFound
	}

	if err := s.pricing.AuthorizeCardCreation(db, actor, program.ID); err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(db, actor, program, req.DurationDays, req.Quantity)
	if err != nil {
		return nil, err
	}

	maxMachines := program.MaxMachines
	if maxMachines <= 0 {
		maxMachines = s.defaultMaxMachines
	}

	start := time.Now()
	result := &CreateCardsResult{TotalCost: quote.TotalCost}

	err = db.Transaction(func(tx *gorm.DB) error {
		cards := make([]models.CardKey, 0, req.Quantity)
		for _, code := range keygen.GenerateBatch(req.Quantity, req.Prefix) {
			card := models.CardKey{
				Code:         code,
				ProgramID:    program.ID,
				Status:       models.CardStatusUnused,
				DurationDays: req.DurationDays,
				MaxMachines:  maxMachines,
			}
			if quote.Settle {
				card.UserID = &actor.ID
			}
			_ = card.SetMachineCodes(nil)
			cards = append(cards, card)
		}
		if err := s.cardRepo.CreateBatch(tx, cards); err != nil {
			return err
		}

		if quote.Settle {
			orders := make([]models.Order, 0, len(cards))
			for i := range cards {
				cardID := cards[i].ID
				orders = append(orders, models.Order{
					UserID:        actor.ID,
					ProgramID:     program.ID,
					CardID:        &cardID,
					Amount:        quote.UnitPrice,
					CostAmount:    program.CostPrice,
					Status:        models.OrderStatusPaid,
					PaymentMethod: models.PaymentMethodBalance,
				})
			}
			if err := s.orderRepo.CreateBatch(tx, orders); err != nil {
				return err
			}

			// The ledger row references an order only when the pairing
			// is unambiguous.
			orderID := ""
			if len(orders) == 1 {
				orderID = orders[0].ID
			}
			desc := fmt.Sprintf("购买卡密 %d 张（%s，%s）", req.Quantity, program.Name, durationLabel(req.DurationDays))
			if _, err := s.balance.Apply(tx, actor.ID, models.BalanceRecordTypeConsume, quote.TotalCost, orderID, desc); err != nil {
				return err
			}
		}

		result.Cards = cards
		return nil
	})
	logger.SettlementLog("create_cards", actorID, quote.TotalCost, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *cardService) EditCard(db *gorm.DB, actorID, cardID string, req *models.EditCardRequest) (*EditCardResult, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}

	result := &EditCardResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByID(tx, cardID)
		if err != nil {
			return err
		}
		if err := s.authorizeCardManagement(tx, actor, card.ProgramID); err != nil {
			return err
		}

		if req.Status != nil && *req.Status != card.Status {
			if !card.CanTransitionTo(*req.Status) {
				return apperrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
					"from": string(card.Status),
					"to":   string(*req.Status),
				})
			}
			card.Status = *req.Status
		}

		if req.MaxMachines != nil && *req.MaxMachines != card.MaxMachines {
			if !actor.IsAdmin() {
				return apperrors.ErrForbidden
			}
			if *req.MaxMachines < card.UsedMachines {
				return apperrors.NewBadRequestError("max_machines cannot be below the current binding count")
			}
			card.MaxMachines = *req.MaxMachines
		}

		if req.DurationDays != nil && *req.DurationDays != card.DurationDays {
			oldDays, newDays := card.DurationDays, *req.DurationDays
			if oldDays <= 0 || newDays <= 0 {
				return apperrors.NewBadRequestError("Cannot reprice a duration change involving unlimited cards")
			}

			program, err := s.programRepo.FindByID(tx, card.ProgramID)
			if err != nil {
				return err
			}

			if card.UserID != nil {
				change := DurationChangeBalance(oldDays, newDays, program.Price)
				if change < 0 {
					desc := fmt.Sprintf("延长 %d 天（%s）", newDays-oldDays, card.Code)
					if _, err := s.balance.Apply(tx, *card.UserID, models.BalanceRecordTypeConsume, -change, "", desc); err != nil {
						return err
					}
				} else if change > 0 {
					desc := fmt.Sprintf("缩短 %d 天（%s）", oldDays-newDays, card.Code)
					if _, err := s.balance.Apply(tx, *card.UserID, models.BalanceRecordTypeRefund, change, "", desc); err != nil {
						return err
					}
				}
				result.BalanceChange = change
			}

			card.DurationDays = newDays
			if card.ExpireAt != nil {
				shifted := card.ExpireAt.Add(time.Duration(newDays-oldDays) * 24 * time.Hour)
				card.ExpireAt = &shifted
			}
		}

		if err := s.cardRepo.Update(tx, card); err != nil {
			return err
		}
		result.Card = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *cardService) DeleteCard(db *gorm.DB, actorID, cardID string) (*DeleteCardResult, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}

	result := &DeleteCardResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByID(tx, cardID)
		if err != nil {
			return err
		}
		if err := s.authorizeCardManagement(tx, actor, card.ProgramID); err != nil {
			return err
		}

		program, err := s.programRepo.FindByID(tx, card.ProgramID)
		if err != nil {
			return err
		}

		refund := DeletionRefund(card, program.Price, time.Now())
		if refund > 0 {
			desc := fmt.Sprintf("删除卡密退款（%s）", card.Code)
			if _, err := s.balance.Apply(tx, *card.UserID, models.BalanceRecordTypeRefund, refund, "", desc); err != nil {
				return err
			}
			result.Refunded = true
			result.RefundAmount = refund
		}

		return s.cardRepo.Delete(tx, card.ID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCardsBatch deletes each card independently; one failure never
// rolls back the others.
func (s *cardService) DeleteCardsBatch(db *gorm.DB, actorID string, cardIDs []string) (*BatchDeleteResult, error) {
	result := &BatchDeleteResult{}
	for _, cardID := range cardIDs {
		res, err := s.DeleteCard(db, actorID, cardID)
		if err != nil {
			result.ErrorCount++
			logger.Warn("batch delete: card skipped", "card_id", cardID, "error", err.Error())
			continue
		}
		result.SuccessCount++
		result.TotalRefunded += res.RefundAmount
	}
	return result, nil
}

func (s *cardService) ClearMachineBindings(db *gorm.DB, actorID, cardID string) error {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	card, err := s.cardRepo.FindByID(db, cardID)
	if err != nil {
		return err
	}
	if err := card.SetMachineCodes(nil); err != nil {
		return err
	}
	return s.cardRepo.Update(db, card)
}

func (s *cardService) ActivateCard(db *gorm.DB, code, machineCode string) (*models.CardKey, error) {
	var activated *models.CardKey
	err := db.Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.FindByCode(tx, code)
		if err != nil {
			return err
		}

		now := time.Now()
		switch card.Status {
		case models.CardStatusBanned:
			return apperrors.ErrCardBanned
		case models.CardStatusExpired:
			return apperrors.ErrCardExpired
		case models.CardStatusUsed:
			if card.IsExpired(now) {
				return apperrors.ErrCardExpired
			}
			if card.HasMachine(machineCode) {
				activated = card
				return nil
			}
			if card.UsedMachines >= card.MaxMachines {
				return apperrors.ErrMachineLimitReached
			}
			if err := card.SetMachineCodes(append(card.MachineCodes(), machineCode)); err != nil {
				return err
			}
		case models.CardStatusUnused:
			card.Status = models.CardStatusUsed
			card.UsedAt = &now
			card.ExpireAt = ExpiryFor(now, card.DurationDays)
			if err := card.SetMachineCodes([]string{machineCode}); err != nil {
				return err
			}
		}

		if err := s.cardRepo.Update(tx, card); err != nil {
			return err
		}
		activated = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

func (s *cardService) GetCard(db *gorm.DB, actorID, cardID string) (*models.CardKey, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	card, err := s.cardRepo.FindByID(db, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCardViewing(db, actor, card.ProgramID, card.UserID); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) ListCards(db *gorm.DB, actorID string, filter models.CardListFilter) ([]models.CardKey, int64, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case actor.IsAdmin():
		// unrestricted
	case actor.IsAgent():
		// Agents see one program at a time and only with can_view_keys.
		if filter.ProgramID == "" {
			return nil, 0, apperrors.NewBadRequestError("program_id filter is required for agents")
		}
		perm, err := s.permRepo.FindByAgentAndProgram(db, actor.ID, filter.ProgramID)
		if err != nil || !perm.CanViewKeys {
			return nil, 0, apperrors.ErrForbidden
		}
	default:
		filter.UserID = actor.ID
	}

	return s.cardRepo.List(db, filter)
}

// authorizeCardManagement gates mutating card operations: admins always,
// agents with can_generate_keys on the program.
func (s *cardService) authorizeCardManagement(db *gorm.DB, actor *models.UserProfile, programID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsAgent() {
		perm, err := s.permRepo.FindByAgentAndProgram(db, actor.ID, programID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrPermissionNotFound) {
				return apperrors.ErrForbidden
			}
			return err
		}
		if perm.CanGenerateKeys {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

func (s *cardService) authorizeCardViewing(db *gorm.DB, actor *models.UserProfile, programID string, ownerID *string) error {
	if actor.IsAdmin() {
		return nil
	}
	if ownerID != nil && *ownerID == actor.ID {
		return nil
	}
	if actor.IsAgent() {
		perm, err := s.permRepo.FindByAgentAndProgram(db, actor.ID, programID)
		if err == nil && perm.CanViewKeys {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

func durationLabel(days int) string {
	if days == models.UnlimitedDuration {
		return "永久"
	}
	return fmt.Sprintf("%d 天", days)
}
