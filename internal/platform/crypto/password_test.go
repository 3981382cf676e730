package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		want      error
		passwords []string
	}{
		{want: nil, passwords: []string{"Test123!@#", "Password1$", "SecureP@ss1", "Str0ng#Pass"}},
		{want: ErrPasswordTooShort, passwords: []string{"Test1!", "Pass1", "Abc12"}},
		{want: ErrPasswordNoUpper, passwords: []string{"test123!@#", "password1$"}},
		{want: ErrPasswordNoLower, passwords: []string{"TEST123!@#", "PASSWORD1$"}},
		{want: ErrPasswordNoNumber, passwords: []string{"TestPass!@#", "Password$$"}},
		{want: ErrPasswordNoSpecialChar, passwords: []string{"TestPass123", "Password1"}},
	}

	for _, tt := range tests {
		for _, p := range tt.passwords {
			assert.Equal(t, tt.want, ValidatePasswordStrength(p), p)
		}
	}
}
