package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"marketly-backend/auth"
	"marketly-backend/models"
	"marketly-backend/repository"

	"github.com/google/uuid"
)

// UserService handles registration, login and profile updates
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// UserWithStore sets the backing store
func UserWithStore(store repository.Store) UserServiceOption {
	return func(s *UserService) {
		s.store = store
	}
}

// UserWithLogger sets the logger
func UserWithLogger(logger *slog.Logger) UserServiceOption {
	return func(s *UserService) {
		s.logger = logger
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRequest represents a request to register a user
type RegisterRequest struct {
	Name     string
	Email    string
	Password string

	// OnCreated runs inside the registration transaction after the user row
	// is written. An error rolls the user back and is returned from Register.
	OnCreated func(user *models.User) error
}

// Register creates a new user with a hashed password. Emails are compared
// without regard to case.
//
// The email is checked before the insert so the caller gets ErrEmailTaken
// rather than a storage error; the unique index on lower(users.email) closes
// the window between the check and the insert.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if s.store == nil {
		return nil, errors.New("user store not set")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	_, err := s.store.Users().GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		if req.OnCreated != nil {
			return req.OnCreated(user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords both
// yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if s.store == nil {
		return nil, errors.New("user store not set")
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// burn the same bcrypt cost as a real check
			auth.CheckPassword(password, dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up email: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateUserRequest represents a request to update a user's profile.
// The password changes only when both CurrentPassword and NewPassword are set.
type UpdateUserRequest struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// Update changes a user's name, email and optionally password in a single
// transaction.
func (s *UserService) Update(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	if s.store == nil {
		return nil, errors.New("user store not set")
	}

	var updated *models.User
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().GetByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		if req.Name == "" || req.Email == "" {
			return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
		}

		// a change of case alone keeps the user's own address
		if !strings.EqualFold(req.Email, user.Email) {
			_, err := tx.Users().GetByEmail(ctx, req.Email)
			switch {
			case err == nil:
				return ErrEmailTaken
			case !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("look up email: %w", err)
			}
		}

		if req.CurrentPassword != "" && req.NewPassword != "" {
			if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
				return ErrWrongPassword
			}
			hash, err := auth.HashPassword(req.NewPassword)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		user.Name = req.Name
		user.Email = req.Email
		if err := tx.Users().Update(ctx, user); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateKey):
				return ErrEmailTaken
			case errors.Is(err, repository.ErrNotFound):
				return ErrUserNotFound
			}
			return fmt.Errorf("update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", updated.ID)
	return updated, nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = auth.HashPassword("marketly-unknown-user")
	})
	return dummyHashValue
}
