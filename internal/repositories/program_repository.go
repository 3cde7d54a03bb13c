package repositories

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProgramRepository interface {
	Create(db *gorm.DB, program *models.Program) error
	FindByID(db *gorm.DB, id string) (*models.Program, error)
	FindAll(db *gorm.DB, limit, offset int) ([]models.Program, int64, error)
	FindByCreator(db *gorm.DB, creatorID string, limit, offset int) ([]models.Program, int64, error)
	Update(db *gorm.DB, program *models.Program) error
	Delete(db *gorm.DB, id string) error
}

type ProgramRepositoryImpl struct{}

func NewProgramRepository() ProgramRepository {
	return &ProgramRepositoryImpl{}
}

func (r *ProgramRepositoryImpl) Create(db *gorm.DB, program *models.Program) error {
	return db.Create(program).Error
}

func (r *ProgramRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Program, error) {
	var program models.Program
	err := db.First(&program, "id = ?", id).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepositoryImpl) FindAll(db *gorm.DB, limit, offset int) ([]models.Program, int64, error) {
	var programs []models.Program
	var total int64

	if err := db.Model(&models.Program{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&programs).Error
	return programs, total, err
}

func (r *ProgramRepositoryImpl) FindByCreator(db *gorm.DB, creatorID string, limit, offset int) ([]models.Program, int64, error) {
	var programs []models.Program
	var total int64

	query := db.Model(&models.Program{}).Where("created_by = ?", creatorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&programs).Error
	return programs, total, err
}

func (r *ProgramRepositoryImpl) Update(db *gorm.DB, program *models.Program) error {
	return db.Save(program).Error
}

func (r *ProgramRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Program{}, "id = ?", id).Error
}
