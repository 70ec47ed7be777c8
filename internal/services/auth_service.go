package services

import (
	"context"
	"errors"
	"time"

	"github.com/khamphay/laolotto-bot/internal/config"
	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/repositories"
	"github.com/khamphay/laolotto-bot/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check to ensure authService implements AuthService
var _ AuthService = (*authService)(nil)

type authService struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) AuthService {
	return &authService{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Register handles admin account registration
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error) {
	existing, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, errors.New("an account with this email already exists")
	}
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	adminUser := &models.AdminUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      "editor",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	created, err := s.adminRepo.Create(ctx, adminUser)
	if err != nil {
		return nil, errors.New("failed to create admin account")
	}

	// Don't return password hash
	created.Password = ""
	return created, nil
}

// Login handles admin login and returns a signed JWT
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	adminUser, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.Password), []byte(req.Password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(adminUser.ID.Hex(), adminUser.Email, adminUser.Role, s.cfg)
	if err != nil {
		return "", errors.New("failed to generate token")
	}
	return token, nil
}
