package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/stellar-edu/stellar-admin-api/internal/models"
	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

// AuthService validates platform-issued access tokens. Token issuance
// lives in the platform backend; this service only verifies.
type AuthService struct {
	secret []byte
}

// NewAuthService builds an AuthService around the shared signing secret.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// ValidateToken parses and verifies an HS256 token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
