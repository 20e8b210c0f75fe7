package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var hashPassword = func(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserService registers API accounts and verifies their credentials.
type UserService struct {
	repo     UserRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewUserService(repo UserRepository, producer EventProducer, logger *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("user_service"),
	}
}

// Register stores a new user with a bcrypt hash of password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := hashPassword([]byte(password))
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password exceeds 72 bytes", e.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.producer.Produce(events.Created, "usuarios", strconv.FormatUint(uint64(user.ID), 10), user)
	return user, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords both yield ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", e.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", e.ErrUnauthorized)
	}
	return user, nil
}

// FindUser resolves a user by primary key.
func (s *UserService) FindUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
