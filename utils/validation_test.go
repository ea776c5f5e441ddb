package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@x.com"))
	assert.True(t, IsValidEmail("owner+tag@sub.example.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("a@"))
	assert.False(t, IsValidEmail(""))
}

func TestValidateStruct(t *testing.T) {
	type params struct {
		Email string `validate:"omitempty,email"`
		View  string `validate:"omitempty,max=255"`
	}

	t.Run("valid struct passes", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(params{Email: "a@x.com", View: "Grid view"}))
	})

	t.Run("empty optional fields pass", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(params{}))
	})

	t.Run("invalid email reports field message", func(t *testing.T) {
		err := ValidateStruct(params{Email: "nope"})
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["Email"], "must be a valid email")
	})
}
