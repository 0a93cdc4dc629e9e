package app

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"etika-quiz-service/internal/domain"
)

// UserStore persists accounts. CreateUser returns domain.ErrEmailTaken or
// domain.ErrUsernameTaken on conflicts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
}

// SessionStore manages login sessions keyed by opaque tokens.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// AuthService handles registration and login.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	bcryptCost int
}

func NewAuthService(users UserStore, sessions SessionStore, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, sessions: sessions, bcryptCost: bcryptCost}
}

// Register creates an account. Emails are lower-cased before storage;
// usernames keep their case. Nothing is written when the confirmation
// mismatches or either identifier is taken.
func (s *AuthService) Register(ctx context.Context, email, username, password, confirm string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if password != confirm {
		return domain.User{}, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login authenticates by email (case-insensitive) when the identifier
// contains '@', otherwise by case-sensitive username, and opens a session.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.UserByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.UserByUsername(ctx, identifier)
	}
	if err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Logout ends the login session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to the authenticated user ID.
func (s *AuthService) Resolve(ctx context.Context, token string) (int64, error) {
	return s.sessions.Resolve(ctx, token)
}
