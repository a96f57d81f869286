package service

import (
	"xmute/mutehub/pkg/crypto"
	jwtpkg "xmute/mutehub/pkg/jwt"
)

// AuthService exchanges the configured admin secret for a short-lived access
// token for the control API.
type AuthService interface {
	IssueToken(secret string) (string, error)
}

type authService struct {
	adminSecretHash string
	jwtManager      *jwtpkg.Manager
}

func NewAuthService(adminSecretHash string, jwtManager *jwtpkg.Manager) AuthService {
	return &authService{
		adminSecretHash: adminSecretHash,
		jwtManager:      jwtManager,
	}
}

func (s *authService) IssueToken(secret string) (string, error) {
	if !crypto.CheckSecret(secret, s.adminSecretHash) {
		return "", ErrInvalidAdminSecret
	}
	return s.jwtManager.GenerateAccessToken("admin")
}
