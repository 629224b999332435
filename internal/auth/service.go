package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/config"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
)

var (
	// ErrUnauthorized covers both a wrong email and a wrong password so the
	// response never leaks which factor failed.
	ErrUnauthorized = errors.New("invalid credentials")

	ErrMisconfigured = errors.New("admin credentials are not configured")
)

// Service validates the configured admin credential pair and issues session
// tokens through the codec.
type Service struct {
	cfg    config.AuthConfig
	codec  *TokenCodec
	logger *logger.Logger
}

func NewService(cfg config.AuthConfig, codec *TokenCodec, log *logger.Logger) *Service {
	return &Service{cfg: cfg, codec: codec, logger: log}
}

// Login checks the supplied pair against the configured admin identity and
// bcrypt hash, and returns a signed 24h token on success.
func (s *Service) Login(email, password string) (string, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		return "", ErrMisconfigured
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1

	// The hash comparison always runs so a bad email costs the same as a bad
	// password.
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password))

	if !emailOK || passwordErr != nil {
		s.logger.LogAuth("LOGIN_FAILED", fmt.Sprintf("rejected login attempt for %q", email))
		return "", ErrUnauthorized
	}

	token, err := s.codec.Issue(s.cfg.AdminEmail, TokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("AUTH", fmt.Sprintf("admin %s logged in", s.cfg.AdminEmail))
	return token, nil
}
