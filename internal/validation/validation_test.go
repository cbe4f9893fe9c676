package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("A@x.com"))
	assert.Equal(t, "a@x.com", NormalizeEmail("  a@X.COM  "))
	assert.Equal(t, "alice@example.com", NormalizeEmail("alice@example.com"))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@x.com",
		"alice.smith+tag@example.co.uk",
		"user_99@sub.domain.io",
	}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"spaces in@example.com",
		"user@nodot",
	}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("user_99"))
	assert.NoError(t, ValidateUsername("some-name"))

	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername("name with spaces"))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("trailing-"))
	assert.Error(t, ValidateUsername("bad!chars"))
}
