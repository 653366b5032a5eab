package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/auth"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponseDTO, error)
	Login(req dto.LoginRequest) (*dto.AuthResponseDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) Register(req dto.RegisterRequest) (*dto.AuthResponseDTO, error) {
	existing, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.CodeUsernameTaken, "Username already taken.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("User registered")

	return s.authResponse(user)
}

func (s *userService) Login(req dto.LoginRequest) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeInvalidCredentials, "Invalid username or password.")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.New(apperr.CodeInvalidCredentials, "Invalid username or password.")
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *model.User) (*dto.AuthResponseDTO, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	var public dto.UserPublicDTO
	if err := copier.Copy(&public, user); err != nil {
		return nil, fmt.Errorf("mapping user: %w", err)
	}
	return &dto.AuthResponseDTO{Token: token, User: public}, nil
}
