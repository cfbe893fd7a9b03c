package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/validate"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService.
type userService struct {
	repo     repository.UserRepository
	tokens   TokenIssuer
	hashCost int
	logger   zerolog.Logger

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash []byte
	compare   func(hash, password []byte) error
}

// NewUserService creates a new user service hashing passwords with the given bcrypt cost.
func NewUserService(repo repository.UserRepository, tokens TokenIssuer, hashCost int, logger zerolog.Logger) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		hashCost: hashCost,
		logger:   logger.With().Str("service", "user").Logger(),
		compare:  bcrypt.CompareHashAndPassword,
	}
}

func (s *userService) GetAll(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *userService) Create(ctx context.Context, req *model.UserRequest) (*model.User, error) {
	return s.create(ctx, req, req.IsAdmin)
}

func (s *userService) Register(ctx context.Context, req *model.UserRequest) (*model.User, error) {
	return s.create(ctx, req, false)
}

func (s *userService) create(ctx context.Context, req *model.UserRequest, isAdmin bool) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	password := req.PlainPassword()
	if password == "" {
		return nil, model.NewValidationError(map[string]string{"password": "is required"})
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := userFromRequest(req)
	user.PasswordHash = hash
	user.IsAdmin = isAdmin

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Update replaces the profile. Only a non-empty "password" rotates the hash.
func (s *userService) Update(ctx context.Context, id primitive.ObjectID, req *model.UserRequest) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	user := userFromRequest(req)
	user.ID = id
	user.IsAdmin = req.IsAdmin

	if req.Password != "" {
		hash, err := s.hash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if updated == nil {
		return nil, model.ErrUserNotFound
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if deleted == nil {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id.Hex()).Msg("user deleted")
	return nil
}

// Login returns InvalidCredentials for an unknown email and a wrong password alike.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, normaliseEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		_ = s.compare(s.unknownUserHash(), []byte(req.Password))
		s.logger.Debug().Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("user_id", user.ID.Hex()).Msg("login with wrong password")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Bool("is_admin", user.IsAdmin).Msg("user logged in")
	return &model.LoginResponse{User: user.Email, Token: token}, nil
}

// unknownUserHash returns a hash at the service's cost that matches no password.
func (s *userService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("no user has this password"), s.hashCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte("no user has this password"), bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *userService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", model.NewValidationError(map[string]string{"password": "must be at most 72 bytes"})
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func userFromRequest(req *model.UserRequest) *model.User {
	return &model.User{
		Name:      req.Name,
		Email:     normaliseEmail(req.Email),
		Phone:     req.Phone,
		Street:    req.Street,
		Apartment: req.Apartment,
		Zip:       req.Zip,
		City:      req.City,
		Country:   req.Country,
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
