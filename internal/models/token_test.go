package models

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsignedToken builds a syntactically valid JWT with an arbitrary payload
// and a garbage signature; the portal never verifies signatures.
func unsignedToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	raw := unsignedToken(t, map[string]interface{}{
		"exp":   exp,
		"cpf":   "52998224725",
		"name":  "Joana Silva",
		"roles": []string{"edital360-admin"},
	})

	claims, err := ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "52998224725", claims.CPF)
	assert.Equal(t, "Joana Silva", claims.Name)
	assert.True(t, claims.Valid(time.Now()))
	assert.True(t, claims.HasRole("edital360-admin"))
	assert.False(t, claims.HasRole("other"))
}

func TestParseToken_Expired(t *testing.T) {
	raw := unsignedToken(t, map[string]interface{}{
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	claims, err := ParseToken(raw)
	require.NoError(t, err)
	assert.False(t, claims.Valid(time.Now()))
}

func TestParseToken_MissingExpiry(t *testing.T) {
	raw := unsignedToken(t, map[string]interface{}{"cpf": "52998224725"})

	claims, err := ParseToken(raw)
	require.NoError(t, err)
	assert.False(t, claims.Valid(time.Now()))
}

func TestParseToken_Garbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a token", "nonsense"},
		{"two parts", "aaaa.bbbb"},
		{"invalid base64 payload", "aaaa.!!!.cccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := ParseToken(tt.raw)
				assert.Error(t, err)
			})
		})
	}
}

func TestTokenClaims_NilSafety(t *testing.T) {
	var claims *TokenClaims
	assert.False(t, claims.Valid(time.Now()))
	assert.False(t, claims.HasRole("any"))
}
