package repositories

import (
	"time"

	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.UserProfile) error
	FindByID(db *gorm.DB, id string) (*models.UserProfile, error)
	FindByUsername(db *gorm.DB, username string) (*models.UserProfile, error)
	Update(db *gorm.DB, user *models.UserProfile) error
	UpdateLastActive(db *gorm.DB, userID string) error

	// UpdateBalance conditionally sets the balance from expectedBefore to
	// newBalance. Returns ErrBalanceConflict when another writer got there
	// first; callers re-read and retry.
	UpdateBalance(db *gorm.DB, userID string, expectedBefore, newBalance float64) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.UserProfile) error {
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(db *gorm.DB, username string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := db.First(&user, "username = ?", username).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.UserProfile) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateLastActive(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.UserProfile{}).
		Where("id = ?", userID).
		Update("last_active_at", &now).Error
}

func (r *UserRepositoryImpl) UpdateBalance(db *gorm.DB, userID string, expectedBefore, newBalance float64) error {
	result := db.Model(&models.UserProfile{}).
		Where("id = ? AND balance = ?", userID, expectedBefore).
		Update("balance", newBalance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBalanceConflict
	}
	return nil
}
