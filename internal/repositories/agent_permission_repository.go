package repositories

import (
	"cardkey_backend/internal/models"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AgentPermissionRepository interface {
	Create(db *gorm.DB, perm *models.AgentPermission) error
	FindByAgentAndProgram(db *gorm.DB, agentID, programID string) (*models.AgentPermission, error)
	FindByProgram(db *gorm.DB, programID string) ([]models.AgentPermission, error)
	Update(db *gorm.DB, perm *models.AgentPermission) error
	Delete(db *gorm.DB, agentID, programID string) error
	DeleteByProgram(db *gorm.DB, programID string) error
}

type AgentPermissionRepositoryImpl struct{}

func NewAgentPermissionRepository() AgentPermissionRepository {
	return &AgentPermissionRepositoryImpl{}
}

func (r *AgentPermissionRepositoryImpl) Create(db *gorm.DB, perm *models.AgentPermission) error {
	return db.Create(perm).Error
}

func (r *AgentPermissionRepositoryImpl) FindByAgentAndProgram(db *gorm.DB, agentID, programID string) (*models.AgentPermission, error) {
	var perm models.AgentPermission
	err := db.Where("agent_id = ? AND program_id = ?", agentID, programID).First(&perm).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPermissionNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *AgentPermissionRepositoryImpl) FindByProgram(db *gorm.DB, programID string) ([]models.AgentPermission, error) {
	var perms []models.AgentPermission
	err := db.Where("program_id = ?", programID).Find(&perms).Error
	return perms, err
}

func (r *AgentPermissionRepositoryImpl) Update(db *gorm.DB, perm *models.AgentPermission) error {
	return db.Save(perm).Error
}

func (r *AgentPermissionRepositoryImpl) Delete(db *gorm.DB, agentID, programID string) error {
	return db.Delete(&models.AgentPermission{}, "agent_id = ? AND program_id = ?", agentID, programID).Error
}

func (r *AgentPermissionRepositoryImpl) DeleteByProgram(db *gorm.DB, programID string) error {
	return db.Delete(&models.AgentPermission{}, "program_id = ?", programID).Error
}
