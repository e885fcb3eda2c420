package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("bob_2"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", MaxUsernameLength+1)))
}

func TestNewValidator_RegistersUsernameRule(t *testing.T) {
	assert.NotPanics(t, func() {
		v := newValidator()
		assert.Error(t, v.Var("bad name", "username"))
		assert.NoError(t, v.Var("alice.b+1@x", "username"))
	})
}
