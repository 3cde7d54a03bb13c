package services

import (
	"cardkey_backend/internal/auth"
	"cardkey_backend/internal/email"
	"cardkey_backend/internal/logger"
	"cardkey_backend/internal/models"
	"cardkey_backend/internal/repositories"
	"cardkey_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type LoginResult struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user"`
}

type UserService interface {
	Login(db *gorm.DB, req *models.LoginRequest) (*LoginResult, error)
	GetProfile(db *gorm.DB, userID string) (*models.UserProfile, error)

	// CreateUser is the admin path for provisioning agents and users.
	CreateUser(db *gorm.DB, actorID string, req *models.CreateUserRequest) (*models.UserProfile, error)
}

type userService struct {
	userRepo repositories.UserRepository
	mailer   email.Provider
}

func NewUserService(userRepo repositories.UserRepository, mailer email.Provider) UserService {
	return &userService{userRepo: userRepo, mailer: mailer}
}

func (s *userService) Login(db *gorm.DB, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			// Same error for unknown user and wrong password.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLastActive(db, user.ID); err != nil {
		logger.Warn("failed to update last_active_at", "user_id", user.ID, "error", err.Error())
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*models.UserProfile, error) {
	return s.userRepo.FindByID(db, userID)
}

func (s *userService) CreateUser(db *gorm.DB, actorID string, req *models.CreateUserRequest) (*models.UserProfile, error) {
	actor, err := s.userRepo.FindByID(db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.userRepo.FindByUsername(db, req.Username); err == nil {
		return nil, apperrors.NewConflictError("Username is already taken")
	} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.UserProfile{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, err
	}

	// Fire-and-forget; a mail failure must not fail provisioning.
	go func(to, username string) {
		if err := s.mailer.SendWelcome(to, username); err != nil {
			logger.Warn("failed to send welcome email", "to", to, "error", err.Error())
		}
	}(user.Email, user.Username)

	return user, nil
}
