package repositories

import (
	"time"

	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RechargeCardRepository interface {
	CreateBatch(db *gorm.DB, cards []models.RechargeCard) error
	FindByCode(db *gorm.DB, code string) (*models.RechargeCard, error)
	FindAll(db *gorm.DB, limit, offset int) ([]models.RechargeCard, int64, error)

	// MarkUsed flips the card to used only while it is still unused; the
	// conditional update is what makes redemption single-use under
	// concurrency.
	MarkUsed(db *gorm.DB, id, userID string, usedAt time.Time) error
	UpdateStatus(db *gorm.DB, id string, status models.RechargeCardStatus) error

	// FindUnusedExpiredBefore returns unredeemed codes whose expiry has
	// passed, for the reconciliation sweep.
	FindUnusedExpiredBefore(db *gorm.DB, cutoff time.Time) ([]models.RechargeCard, error)
}

type RechargeCardRepositoryImpl struct{}

func NewRechargeCardRepository() RechargeCardRepository {
	return &RechargeCardRepositoryImpl{}
}

func (r *RechargeCardRepositoryImpl) CreateBatch(db *gorm.DB, cards []models.RechargeCard) error {
	if len(cards) == 0 {
		return nil
	}
	return db.Create(&cards).Error
}

func (r *RechargeCardRepositoryImpl) FindByCode(db *gorm.DB, code string) (*models.RechargeCard, error) {
	var card models.RechargeCard
	err := db.First(&card, "code = ?", code).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRechargeCodeNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *RechargeCardRepositoryImpl) FindAll(db *gorm.DB, limit, offset int) ([]models.RechargeCard, int64, error) {
	var total int64
	if err := db.Model(&models.RechargeCard{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cards []models.RechargeCard
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&cards).Error
	return cards, total, err
}

func (r *RechargeCardRepositoryImpl) MarkUsed(db *gorm.DB, id, userID string, usedAt time.Time) error {
	result := db.Model(&models.RechargeCard{}).
		Where("id = ? AND status = ?", id, models.RechargeCardStatusUnused).
		Updates(map[string]interface{}{
			"status":  models.RechargeCardStatusUsed,
			"used_by": userID,
			"used_at": usedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRechargeCodeAlreadyUsed
	}
	return nil
}

func (r *RechargeCardRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.RechargeCardStatus) error {
	return db.Model(&models.RechargeCard{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *RechargeCardRepositoryImpl) FindUnusedExpiredBefore(db *gorm.DB, cutoff time.Time) ([]models.RechargeCard, error) {
	var cards []models.RechargeCard
	err := db.
		Where("status = ? AND expire_at IS NOT NULL AND expire_at < ?", models.RechargeCardStatusUnused, cutoff).
		Find(&cards).Error
	return cards, err
}
