package service

import (
	"log"

	"mouna-backend/internal/model"
	"mouna-backend/internal/repository"
	"mouna-backend/pkg/jwt"
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
}

func NewAuthService(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) AuthService {
	return &authService{userRepo: userRepo, auditRepo: auditRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	// Trail row is best-effort, it never blocks the login.
	userID := user.ID
	entry := &model.AuditLog{
		Action:  model.AuditLogin,
		Target:  user.Name,
		Details: "تسجيل دخول",
		UserID:  &userID,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: login audit write failed for %s: %v", user.Username, err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
