package services

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// balanceRetries bounds the compare-and-swap loop on the balance column.
const balanceRetries = 3

// BalanceService mutates profile balances. Every mutation is paired with
// exactly one appended BalanceRecord carrying the before/after snapshot;
// there is no other write path to the balance column.
type BalanceService interface {
	// Apply moves amount on the user's balance in the direction given by
	// recordType and appends the matching ledger row. Amount is a
	// positive magnitude. Consume fails with ErrInsufficientBalance
	// before any mutation when the balance does not cover it.
	Apply(db *gorm.DB, userID string, recordType models.BalanceRecordType, amount float64, orderID, description string) (*models.BalanceRecord, error)

	ListRecords(db *gorm.DB, userID string, page, pageSize int) ([]models.BalanceRecord, int64, error)

	// AdminAdjust is the manual correction entry point.
	AdminAdjust(db *gorm.DB, actorID string, req *models.AdjustBalanceRequest) (*models.BalanceRecord, error)
}

type balanceService struct {
	userRepo   repositories.UserRepository
	recordRepo repositories.BalanceRecordRepository
}

func NewBalanceService(
	userRepo repositories.UserRepository,
	recordRepo repositories.BalanceRecordRepository,
) BalanceService {
	return &balanceService{
		userRepo:   userRepo,
		recordRepo: recordRepo,
	}
}

func (s *balanceService) Apply(db *gorm.DB, userID string, recordType models.BalanceRecordType, amount float64, orderID, description string) (*models.BalanceRecord, error) {
	if amount <= 0 {
		return nil, apperrors.NewBadRequestError("Balance mutation amount must be positive")
	}

	var lastErr error
	for attempt := 0; attempt < balanceRetries; attempt++ {
		user, err := s.userRepo.FindByID(db, userID)
		if err != nil {
			return nil, err
		}

		before := user.Balance
		var after float64
		if recordType.IsCredit() {
			after = before + amount
		} else {
			if before < amount {
				return nil, apperrors.ErrInsufficientBalance.WithDetails(map[string]float64{
					"balance":  before,
					"required": amount,
				})
			}
			after = before - amount
		}

		if err := s.userRepo.UpdateBalance(db, userID, before, after); err != nil {
			if apperrors.Is(err, apperrors.ErrBalanceConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		record := &models.BalanceRecord{
			UserID:        userID,
			Type:          recordType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			OrderID:       orderID,
			Description:   description,
		}
		if err := s.recordRepo.Create(db, record); err != nil {
			return nil, err
		}
		return record, nil
	}
	return nil, lastErr
}

func (s *balanceService) ListRecords(db *gorm.DB, userID string, page, pageSize int) ([]models.BalanceRecord, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	return s.recordRepo.FindByUser(db, userID, pageSize, offset)
}

func (s *balanceService) AdminAdjust(db *gorm.DB, actorID string, req *models.AdjustBalanceRequest) (*models.BalanceRecord, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	var record *models.BalanceRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		record, txErr = s.Apply(tx, req.UserID, req.Type, req.Amount, "", req.Description)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
