package repositories

import (
	"cardkey_backend/internal/models"

	"gorm.io/gorm"
)

// BalanceRecordRepository only appends and reads. The ledger has no
// update or delete path.
type BalanceRecordRepository interface {
	Create(db *gorm.DB, record *models.BalanceRecord) error
	FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.BalanceRecord, int64, error)
}

type BalanceRecordRepositoryImpl struct{}

func NewBalanceRecordRepository() BalanceRecordRepository {
	return &BalanceRecordRepositoryImpl{}
}

func (r *BalanceRecordRepositoryImpl) Create(db *gorm.DB, record *models.BalanceRecord) error {
	return db.Create(record).Error
}

func (r *BalanceRecordRepositoryImpl) FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.BalanceRecord, int64, error) {
	query := db.Model(&models.BalanceRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.BalanceRecord
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	return records, total, err
}
