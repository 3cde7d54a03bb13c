package repositories

import (
	"cardkey_backend/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(db *gorm.DB, order *models.Order) error
	CreateBatch(db *gorm.DB, orders []models.Order) error
	FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Order, int64, error)
}

type OrderRepositoryImpl struct{}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

func (r *OrderRepositoryImpl) Create(db *gorm.DB, order *models.Order) error {
	return db.Create(order).Error
}

func (r *OrderRepositoryImpl) CreateBatch(db *gorm.DB, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return db.Create(&orders).Error
}

func (r *OrderRepositoryImpl) FindByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Order, int64, error) {
	query := db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}
