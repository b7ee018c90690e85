package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"quizentia_backend/internal/config"
	"quizentia_backend/internal/util"
	"quizentia_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("incorrect username or password")

// AuthService checks the configured admin credential pair and issues
// short-lived bearer tokens.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// Authenticate accepts either a bcrypt digest or a plain value in the
// configured password; plain comparison is constant-time.
func (s *AuthService) Authenticate(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) != 1 {
		return false
	}

	stored := s.cfg.Admin.Password
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	if !s.Authenticate(username, password) {
		logger.Log.Warn("Failed admin login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(username, util.RoleAdmin, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Admin logged in", zap.String("username", username))
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.cfg.JWT.ExpireTime.Seconds()),
	}, nil
}
