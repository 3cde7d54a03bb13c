package repositories

import (
	"time"

	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CardKeyRepository interface {
	Create(db *gorm.DB, card *models.CardKey) error
	CreateBatch(db *gorm.DB, cards []models.CardKey) error
	FindByID(db *gorm.DB, id string) (*models.CardKey, error)
	FindByCode(db *gorm.DB, code string) (*models.CardKey, error)
	FindByProgram(db *gorm.DB, programID string) ([]models.CardKey, error)
	List(db *gorm.DB, filter models.CardListFilter) ([]models.CardKey, int64, error)
	Update(db *gorm.DB, card *models.CardKey) error
	UpdateStatus(db *gorm.DB, id string, status models.CardStatus) error
	Delete(db *gorm.DB, id string) error
	DeleteByProgram(db *gorm.DB, programID string) error

	// FindUsedExpiredBefore returns activated cards whose expiry has
	// passed but whose status still says used. The expiry worker
	// reconciles these.
	FindUsedExpiredBefore(db *gorm.DB, cutoff time.Time) ([]models.CardKey, error)
}

type CardKeyRepositoryImpl struct{}

func NewCardKeyRepository() CardKeyRepository {
	return &CardKeyRepositoryImpl{}
}

func (r *CardKeyRepositoryImpl) Create(db *gorm.DB, card *models.CardKey) error {
	return db.Create(card).Error
}

func (r *CardKeyRepositoryImpl) CreateBatch(db *gorm.DB, cards []models.CardKey) error {
	if len(cards) == 0 {
		return nil
	}
	return db.Create(&cards).Error
}

func (r *CardKeyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.CardKey, error) {
	var card models.CardKey
	err := db.First(&card, "id = ?", id).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardKeyRepositoryImpl) FindByCode(db *gorm.DB, code string) (*models.CardKey, error) {
	var card models.CardKey
	err := db.First(&card, "code = ?", code).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardKeyRepositoryImpl) FindByProgram(db *gorm.DB, programID string) ([]models.CardKey, error) {
	var cards []models.CardKey
	err := db.Where("program_id = ?", programID).Find(&cards).Error
	return cards, err
}

func (r *CardKeyRepositoryImpl) List(db *gorm.DB, filter models.CardListFilter) ([]models.CardKey, int64, error) {
	query := db.Model(&models.CardKey{})
	if filter.ProgramID != "" {
		query = query.Where("program_id = ?", filter.ProgramID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var cards []models.CardKey
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&cards).Error
	return cards, total, err
}

func (r *CardKeyRepositoryImpl) Update(db *gorm.DB, card *models.CardKey) error {
	return db.Save(card).Error
}

func (r *CardKeyRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.CardStatus) error {
	return db.Model(&models.CardKey{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *CardKeyRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.CardKey{}, "id = ?", id).Error
}

func (r *CardKeyRepositoryImpl) DeleteByProgram(db *gorm.DB, programID string) error {
	return db.Delete(&models.CardKey{}, "program_id = ?", programID).Error
}

func (r *CardKeyRepositoryImpl) FindUsedExpiredBefore(db *gorm.DB, cutoff time.Time) ([]models.CardKey, error) {
	var cards []models.CardKey
	err := db.Where("status = ? AND expire_at IS NOT NULL AND expire_at < ?", models.CardStatusUsed, cutoff).
		Find(&cards).Error
	return cards, err
}
