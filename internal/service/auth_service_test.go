package service

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aozu-ops-hub/internal/auth"
	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/pkg/jwt"
)

const testSecret = "identity-test-secret"

type fixedStatus domain.SyncStatus

func (f fixedStatus) Status() domain.SyncStatus { return domain.SyncStatus(f) }

func TestAuthServiceSignIn(t *testing.T) {
	session := auth.NewSession()
	svc := NewAuthService(session, fixedStatus(domain.SyncStatusSynced), testSecret)

	var transitions int
	session.Subscribe(func(prev, next *domain.User) { transitions++ })

	token, err := jwt.GenerateIdentityToken("uid-1", "青井", "https://example.com/a.png", time.Hour, testSecret)
	require.NoError(t, err)

	resp, err := svc.SignIn(token)
	require.NoError(t, err)
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, &domain.User{UID: "uid-1", DisplayName: "青井", PhotoURL: "https://example.com/a.png"}, resp.User)
	assert.Equal(t, domain.SyncStatusSynced, resp.Status)
	assert.Equal(t, "uid-1", session.UserID())
	assert.Equal(t, 1, transitions)

	out := svc.SignOut()
	assert.False(t, out.LoggedIn)
	assert.Nil(t, out.User)
	assert.Equal(t, 2, transitions)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	session := auth.NewSession()
	svc := NewAuthService(session, fixedStatus(domain.SyncStatusIdle), testSecret)

	expired, err := jwt.GenerateIdentityToken("uid-1", "", "", -time.Minute, testSecret)
	require.NoError(t, err)
	forged, err := jwt.GenerateIdentityToken("uid-1", "", "", time.Hour, "other-secret")
	require.NoError(t, err)
	refresh, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		UserID: "uid-9",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    jwt.Issuer,
			Subject:   "refresh",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong signer", forged},
		{"not an identity token", refresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.False(t, session.IsLoggedIn())
		})
	}
}
