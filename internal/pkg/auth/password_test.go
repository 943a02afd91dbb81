package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

func newPasswordManager() *auth.PasswordManager {
	return auth.NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := newPasswordManager()

	hash, err := manager.HashPassword("secret-pass-123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass-123", hash)

	assert.NoError(t, manager.VerifyPassword("secret-pass-123", hash))
	assert.Error(t, manager.VerifyPassword("wrong-pass", hash))
}

func TestValidatePassword(t *testing.T) {
	manager := newPasswordManager()

	assert.Error(t, manager.ValidatePassword("short"))
	assert.Error(t, manager.ValidatePassword(strings.Repeat("x", 129)))
	assert.NoError(t, manager.ValidatePassword("just-right-1"))
	assert.NoError(t, manager.ValidatePassword(strings.Repeat("x", 128)))
}

func TestGenerateRandomPassword(t *testing.T) {
	manager := newPasswordManager()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		password, err := manager.GenerateRandomPassword()
		require.NoError(t, err)

		assert.Len(t, password, auth.GeneratedPasswordLength)
		for _, r := range password {
			assert.Contains(t, credentialAlphabet, string(r))
		}
		seen[password] = true
	}
	// 20 draws from a 70^12 space never collide in practice
	assert.Len(t, seen, 20)
}

func TestGeneratedPasswordSurvivesHashing(t *testing.T) {
	manager := newPasswordManager()

	password, err := manager.GenerateRandomPassword()
	require.NoError(t, err)

	hash, err := manager.HashPassword(password)
	require.NoError(t, err)
	assert.NoError(t, manager.VerifyPassword(password, hash))
}
