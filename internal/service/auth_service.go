package service

import (
	"fmt"

	"aozu-ops-hub/internal/auth"
	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/pkg/jwt"
)

// StatusSource reports the current sync status.
type StatusSource interface {
	Status() domain.SyncStatus
}

// AuthService turns identity-provider tokens into a device session. Signing
// in notifies session subscribers, which run reconciliation before SignIn
// returns.
type AuthService struct {
	session     *auth.Session
	status      StatusSource
	tokenSecret string
}

func NewAuthService(session *auth.Session, status StatusSource, tokenSecret string) *AuthService {
	return &AuthService{
		session:     session,
		status:      status,
		tokenSecret: tokenSecret,
	}
}

func (s *AuthService) SignIn(idToken string) (*domain.SessionResponse, error) {
	claims, err := jwt.ValidateToken(idToken, s.tokenSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user := domain.User{
		UID:         claims.UserID,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}
	if err := s.session.SignIn(user); err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return s.Current(), nil
}

func (s *AuthService) SignOut() *domain.SessionResponse {
	s.session.SignOut()
	return s.Current()
}

func (s *AuthService) Current() *domain.SessionResponse {
	user := s.session.Current()
	return &domain.SessionResponse{
		LoggedIn: user != nil,
		User:     user,
		Status:   s.status.Status(),
	}
}
