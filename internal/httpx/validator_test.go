package httpx

import (
	"strings"
	"testing"
)

type testStruct struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	s := testStruct{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "Test123!@#",
	}

	if errs := ValidateStruct(s); len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %v", errs)
	}
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	errs := ValidateStruct(testStruct{})
	if len(errs) != 3 {
		t.Fatalf("Expected 3 validation errors, got %v", errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = strings.Contains(e.Message, "required")
	}
	for _, f := range []string{"email", "username", "password"} {
		if !fields[f] {
			t.Errorf("Expected %s required error, got %v", f, errs)
		}
	}
}

func TestValidateStruct_PasswordStrength(t *testing.T) {
	testCases := []struct {
		password string
		valid    bool
	}{
		{"Test123!@#", true},
		{"short", false},
		{"nouppercase123!@#", false},
		{"NoSpecial123", false},
	}

	for _, tc := range testCases {
		errs := ValidateStruct(testStruct{
			Email:    "test@example.com",
			Username: "testuser",
			Password: tc.password,
		})
		hasPasswordError := false
		for _, e := range errs {
			if e.Field == "password" {
				hasPasswordError = true
			}
		}
		if tc.valid == hasPasswordError {
			t.Errorf("Password %q: valid=%v but errors=%v", tc.password, tc.valid, errs)
		}
	}
}
