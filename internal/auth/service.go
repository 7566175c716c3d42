package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates username/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Verify resolves a bearer token to its identity.
func (s *Service) Verify(ctx context.Context, token string) (Identity, error) {
	return s.tokens.Resolve(ctx, token)
}

// CurrentUser loads the account behind an identity.
func (s *Service) CurrentUser(ctx context.Context, id Identity) (User, error) {
	return s.repo.FindByID(ctx, id.UserID)
}
