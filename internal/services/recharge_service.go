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

type RedeemResult struct {
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

type RechargeService interface {
	// CreateCards mints a batch of recharge codes. Admin only.
	CreateCards(db *gorm.DB, actorID string, req *models.CreateRechargeCardsRequest) ([]models.RechargeCard, error)

	// Redeem credits the code's amount to the caller exactly once.
	Redeem(db *gorm.DB, userID, code string) (*RedeemResult, error)

	ListCards(db *gorm.DB, actorID string, page, pageSize int) ([]models.RechargeCard, int64, error)
}

type rechargeService struct {
	rechargeRepo repositories.RechargeCardRepository
	userRepo     repositories.UserRepository
	balance      BalanceService
}

func NewRechargeService(
	rechargeRepo repositories.RechargeCardRepository,
	userRepo repositories.UserRepository,
	balance BalanceService,
) RechargeService {
	return &rechargeService{
		rechargeRepo: rechargeRepo,
		userRepo:     userRepo,
		balance:      balance,
	}
}

func (s *rechargeService) CreateCards(db *gorm.DB, actorID string, req *models.CreateRechargeCardsRequest) ([]models.RechargeCard, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	cards := make([]models.RechargeCard, 0, req.Quantity)
	for _, code := range keygen.GenerateBatch(req.Quantity, "") {
		cards = append(cards, models.RechargeCard{
			Code:     code,
			Amount:   req.Amount,
			Status:   models.RechargeCardStatusUnused,
			ExpireAt: req.ExpireAt,
			Note:     req.Note,
		})
	}
	if err := s.rechargeRepo.CreateBatch(db, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *rechargeService) Redeem(db *gorm.DB, userID, code string) (*RedeemResult, error) {
	start := time.Now()
	result := &RedeemResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		card, err := s.rechargeRepo.FindByCode(tx, code)
		if err != nil {
			return err
		}
		if card.Status == models.RechargeCardStatusUsed {
			return apperrors.ErrRechargeCodeAlreadyUsed
		}
		if card.Status == models.RechargeCardStatusExpired {
			return apperrors.ErrRechargeCodeExpired
		}
		// Overdue codes the sweep has not retired yet fail the same way;
		// redemption never mutates them, so an admin can still audit or
		// reissue the row.
		if card.ExpireAt != nil && !card.ExpireAt.After(time.Now()) {
			return apperrors.ErrRechargeCodeExpired
		}

		if err := s.rechargeRepo.MarkUsed(tx, card.ID, userID, time.Now()); err != nil {
			return err
		}

		desc := fmt.Sprintf("充值卡兑换（%s）", card.Code)
		record, err := s.balance.Apply(tx, userID, models.BalanceRecordTypeRecharge, card.Amount, "", desc)
		if err != nil {
			return err
		}

		result.Amount = card.Amount
		result.NewBalance = record.BalanceAfter
		return nil
	})
	logger.SettlementLog("redeem_recharge_card", userID, result.Amount, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *rechargeService) ListCards(db *gorm.DB, actorID string, page, pageSize int) ([]models.RechargeCard, int64, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !actor.IsAdmin() {
		return nil, 0, apperrors.ErrForbidden
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	return s.rechargeRepo.FindAll(db, pageSize, offset)
}
