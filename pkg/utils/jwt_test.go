package utils

import (
	"testing"

	"course_commerce/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	old := config.GlobalConfig.JWT
	config.GlobalConfig.JWT.Secret = secret
	config.GlobalConfig.JWT.Expire = 1
	t.Cleanup(func() { config.GlobalConfig.JWT = old })
}

func TestGenerateAndParseToken(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	token, exp, err := GenerateToken("user-1", "admin")
	require.NoError(t, err)
	require.NotNil(t, exp)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")
	token, _, err := GenerateToken("user-1", "user")
	require.NoError(t, err)

	config.GlobalConfig.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestPagination_GetPageOffset(t *testing.T) {
	p := Pagination{Page: 0, Limit: 500}
	offset, limit := p.GetPageOffset()
	assert.Equal(t, 0, offset)
	assert.Equal(t, 100, limit)

	p = Pagination{Page: 3, Limit: 20}
	offset, limit = p.GetPageOffset()
	assert.Equal(t, 40, offset)
	assert.Equal(t, 20, limit)
}
