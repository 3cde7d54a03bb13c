package repositories

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SubscriptionPackageRepository interface {
	Create(db *gorm.DB, pkg *models.SubscriptionPackage) error
	FindByID(db *gorm.DB, id string) (*models.SubscriptionPackage, error)
	FindActiveByDuration(db *gorm.DB, durationDays int) (*models.SubscriptionPackage, error)
	FindAll(db *gorm.DB) ([]models.SubscriptionPackage, error)
	Update(db *gorm.DB, pkg *models.SubscriptionPackage) error
	Delete(db *gorm.DB, id string) error
}

type SubscriptionPackageRepositoryImpl struct{}

func NewSubscriptionPackageRepository() SubscriptionPackageRepository {
	return &SubscriptionPackageRepositoryImpl{}
}

func (r *SubscriptionPackageRepositoryImpl) Create(db *gorm.DB, pkg *models.SubscriptionPackage) error {
	return db.Create(pkg).Error
}

func (r *SubscriptionPackageRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.SubscriptionPackage, error) {
	var pkg models.SubscriptionPackage
	err := db.First(&pkg, "id = ?", id).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *SubscriptionPackageRepositoryImpl) FindActiveByDuration(db *gorm.DB, durationDays int) (*models.SubscriptionPackage, error) {
	var pkg models.SubscriptionPackage
	err := db.Where("duration_days = ? AND is_active = ?", durationDays, true).
		Order("sort_order ASC").
		First(&pkg).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *SubscriptionPackageRepositoryImpl) FindAll(db *gorm.DB) ([]models.SubscriptionPackage, error) {
	var pkgs []models.SubscriptionPackage
	err := db.Order("sort_order ASC, duration_days ASC").Find(&pkgs).Error
	return pkgs, err
}

func (r *SubscriptionPackageRepositoryImpl) Update(db *gorm.DB, pkg *models.SubscriptionPackage) error {
	return db.Save(pkg).Error
}

func (r *SubscriptionPackageRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.SubscriptionPackage{}, "id = ?", id).Error
}
