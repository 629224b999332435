package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/auth"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/config"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
)

func newTestService(t *testing.T, email, password string) (*auth.Service, *auth.TokenCodec) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	codec, err := auth.NewTokenCodec("test-secret")
	assert.NoError(t, err)

	cfg := config.AuthConfig{
		AdminEmail:        email,
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
	}
	return auth.NewService(cfg, codec, logger.NewLogger()), codec
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	service, codec := newTestService(t, "admin@example.com", "hunter2")

	token, err := service.Login("admin@example.com", "hunter2")
	assert.NoError(t, err)

	subject, err := codec.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin@example.com", subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newTestService(t, "admin@example.com", "hunter2")

	_, err := service.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestLoginRejectsWrongEmail(t *testing.T) {
	service, _ := newTestService(t, "admin@example.com", "hunter2")

	// Wrong email and wrong password collapse to the same error.
	_, err := service.Login("intruder@example.com", "hunter2")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestLoginReportsMissingConfiguration(t *testing.T) {
	codec, err := auth.NewTokenCodec("test-secret")
	assert.NoError(t, err)

	service := auth.NewService(config.AuthConfig{}, codec, logger.NewLogger())

	_, err = service.Login("admin@example.com", "hunter2")
	assert.ErrorIs(t, err, auth.ErrMisconfigured)
}
