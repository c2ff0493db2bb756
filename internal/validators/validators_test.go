package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid address", email: "alice@example.com"},
		{name: "subdomain", email: "alice@mail.example.com"},
		{name: "missing at sign", email: "alice.example.com", wantErr: true},
		{name: "missing local part", email: "@example.com", wantErr: true},
		{name: "display name form", email: "Alice <alice@example.com>", wantErr: true},
		{name: "empty", email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.NotEmpty(t, violations)
				return
			}
			assert.Empty(t, violations)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.Empty(t, ValidateUsername("alice"))
	assert.Empty(t, ValidateUsername("bobb"))
	assert.NotEmpty(t, ValidateUsername("bob"))
	assert.NotEmpty(t, ValidateUsername(""))
}

func TestValidatePassword(t *testing.T) {
	t.Run("strong password passes", func(t *testing.T) {
		assert.Empty(t, ValidatePassword("Str0ng!pass", "Str0ng!pass"))
	})

	t.Run("each missing rule is itemized", func(t *testing.T) {
		tests := []struct {
			name     string
			password string
			wantPart string
		}{
			{name: "too short", password: "S0r!t", wantPart: "too short"},
			{name: "no digit", password: "Strong!pass", wantPart: "digit"},
			{name: "no uppercase", password: "str0ng!pass", wantPart: "uppercase"},
			{name: "no lowercase", password: "STR0NG!PASS", wantPart: "lowercase"},
			{name: "no symbol", password: "Str0ngpass", wantPart: "symbol"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				violations := ValidatePassword(tt.password, tt.password)
				require.NotEmpty(t, violations)

				found := false
				for _, v := range violations {
					if strings.Contains(v, tt.wantPart) {
						found = true
					}
				}
				assert.True(t, found, "expected a violation mentioning %q, got %v", tt.wantPart, violations)
			})
		}
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		violations := ValidatePassword("Str0ng!pass", "Different!1")
		assert.Contains(t, violations, "Passwords must match!")
	})

	t.Run("all rules violated at once", func(t *testing.T) {
		violations := ValidatePassword("abc", "xyz")
		// short, no digit, no uppercase, no symbol, mismatch
		assert.Len(t, violations, 5)
	})
}

func TestValidateRegistration(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		assert.Empty(t, ValidateRegistration("alice", "alice@example.com", "Str0ng!pass", "Str0ng!pass"))
	})

	t.Run("collects violations across fields", func(t *testing.T) {
		violations := ValidateRegistration("bob", "not-an-email", "weak", "weak")
		// username too short, bad email, plus four password rules
		assert.Len(t, violations, 6)
	})
}
