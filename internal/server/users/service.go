package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/dmitrijs2005/authapp/internal/server/auth"
	"github.com/dmitrijs2005/authapp/internal/server/config"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a registration request as the server validates it.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate enforces the registration rules. They mirror the client's
// pre-submit hints, but only this check is binding.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.RuneLength(3, 64)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.RuneLength(6, 72)),
	)
}

// UpdateInput changes a profile. Empty fields keep their current values.
type UpdateInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.RuneLength(3, 64)),
		validation.Field(&in.Email, is.Email),
		validation.Field(&in.Password, validation.RuneLength(6, 72)),
	)
}

type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

// Option tweaks a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func NewService(repo Repository, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenTTL,
		bcryptCost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrorValidation, err)
}

func (s *Service) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}
	return h, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", validationError(err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, &User{UserName: in.Username, Email: in.Email, PasswordHash: hash})
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the password of userName and returns a fresh token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, userName, password string) (*User, string, error) {
	user, err := s.repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		user.UserName = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		if user.PasswordHash, err = s.hash(in.Password); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return 0, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrInvalidToken
		}
		return 0, err
	}
	return id, nil
}
