package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/auth"
	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type UserStore interface {
	InsertUser(ctx context.Context, u *store.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	RolesByNames(ctx context.Context, names []string) ([]store.Role, error)
	AssignRole(ctx context.Context, userID, roleID int64) error
	RoleNamesForUser(ctx context.Context, userID int64) ([]string, error)
}

// AuthService registers users, mints role-carrying access tokens and
// revokes them on logout through the blacklist.
type AuthService struct {
	store     UserStore
	tokens    *auth.Manager
	blacklist *auth.Blacklist
}

func NewAuthService(s UserStore, tokens *auth.Manager, blacklist *auth.Blacklist) *AuthService {
	return &AuthService{store: s, tokens: tokens, blacklist: blacklist}
}

// RegisteredUser is the public view of a newly created account.
type RegisteredUser struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string, roleNames []string) (*RegisteredUser, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, errors.Wrap(errs.ErrValidation, "first and last name are required")
	}
	if !strings.Contains(email, "@") {
		return nil, errors.Wrap(errs.ErrValidation, "a valid email is required")
	}
	if password == "" {
		return nil, errors.Wrap(errs.ErrValidation, "password is required")
	}
	if len(roleNames) == 0 {
		return nil, errors.Wrap(errs.ErrValidation, "at least one role is required")
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrap(errs.ErrValidation, "email already registered")
	}

	roles, err := s.store.RolesByNames(ctx, roleNames)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(roleNames) {
		return nil, errors.Wrap(errs.ErrValidation, "one or more roles are invalid")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	userID, err := s.store.InsertUser(ctx, &store.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if err := s.store.AssignRole(ctx, userID, role.ID); err != nil {
			return nil, err
		}
	}

	return &RegisteredUser{
		ID:        userID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Roles:     roleNames,
	}, nil
}

// Login verifies the credentials and returns a signed token carrying
// the user's role names.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", errors.Wrap(errs.ErrAuth, "invalid credentials")
	}

	roles, err := s.store.RoleNamesForUser(ctx, user.ID)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user.Email, roles)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return token, nil
}

// Logout blacklists the token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return err
	}
	return s.blacklist.Add(ctx, token, claims.ExpiresAt)
}

// Verify validates a token and rejects blacklisted ones.
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errors.Wrap(errs.ErrAuth, "token has been revoked")
	}
	return claims, nil
}
