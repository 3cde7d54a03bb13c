package services

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PackageService manages the duration pricing tiers consumed by the
// pricing policy. All mutations are admin-only; the listing is open to
// any authenticated caller so purchase forms can render the tiers.
type PackageService interface {
	Create(db *gorm.DB, actorID string, req *models.CreatePackageRequest) (*models.SubscriptionPackage, error)
	Update(db *gorm.DB, actorID, packageID string, req *models.UpdatePackageRequest) (*models.SubscriptionPackage, error)
	Delete(db *gorm.DB, actorID, packageID string) error
	List(db *gorm.DB) ([]models.SubscriptionPackage, error)
}

type packageService struct {
	packageRepo repositories.SubscriptionPackageRepository
	userRepo    repositories.UserRepository
}

func NewPackageService(
	packageRepo repositories.SubscriptionPackageRepository,
	userRepo repositories.UserRepository,
) PackageService {
	return &packageService{
		packageRepo: packageRepo,
		userRepo:    userRepo,
	}
}

func (s *packageService) requireAdmin(db *gorm.DB, actorID string) error {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *packageService) Create(db *gorm.DB, actorID string, req *models.CreatePackageRequest) (*models.SubscriptionPackage, error) {
	if err := s.requireAdmin(db, actorID); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	pkg := &models.SubscriptionPackage{
		Name:            req.Name,
		DurationDays:    req.DurationDays,
		PriceMultiplier: req.PriceMultiplier,
		IsActive:        active,
		SortOrder:       req.SortOrder,
	}
	if err := s.packageRepo.Create(db, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) Update(db *gorm.DB, actorID, packageID string, req *models.UpdatePackageRequest) (*models.SubscriptionPackage, error) {
	if err := s.requireAdmin(db, actorID); err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.FindByID(db, packageID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}
	if req.PriceMultiplier != nil {
		pkg.PriceMultiplier = *req.PriceMultiplier
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		pkg.SortOrder = *req.SortOrder
	}

	if err := s.packageRepo.Update(db, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) Delete(db *gorm.DB, actorID, packageID string) error {
	if err := s.requireAdmin(db, actorID); err != nil {
		return err
	}
	if _, err := s.packageRepo.FindByID(db, packageID); err != nil {
		return err
	}
	return s.packageRepo.Delete(db, packageID)
}

func (s *packageService) List(db *gorm.DB) ([]models.SubscriptionPackage, error) {
	return s.packageRepo.FindAll(db)
}
