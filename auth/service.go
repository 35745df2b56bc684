package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"partyinvite/models"
	"partyinvite/sl"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service registers and authenticates administrators.
type Service struct {
	users  UserStore
	tokens *Issuer
	cost   int
	log    *slog.Logger

	// compared against when the email is unknown so both failures take
	// about the same time
	dummyHash []byte
}

func NewService(users UserStore, tokens *Issuer, cost int, log *slog.Logger) (*Service, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("partyinvite-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		cost:      cost,
		log:       log.With(sl.Module("auth")),
		dummyHash: dummy,
	}, nil
}

// Register creates an administrator and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, string, error) {
	email = models.NormalizeEmail(email)
	if role == "" {
		role = models.RoleAdmin
	}

	// Check if email already exists
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", models.ErrConflict
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, "", models.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, token, nil
}

// Authenticate checks email and password. Unknown email and wrong password
// both return models.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// EnsureAdmin creates the configured administrator unless its email is
// already registered.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, _, err := s.Register(ctx, name, email, password, models.RoleAdmin)
	if errors.Is(err, models.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info("default admin created", slog.String("email", models.NormalizeEmail(email)))
	return nil
}
