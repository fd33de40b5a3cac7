package utils_test

import (
	"regexp"
	"testing"

	"github.com/afrimoni/remit_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateClaimCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := utils.GenerateClaimCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	// 50 draws from a 62^6 space colliding would indicate a broken generator.
	assert.Greater(t, len(seen), 45)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 64)

	_, err = utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}
