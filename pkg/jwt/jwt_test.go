package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "bookdirectstays", 24*time.Hour)

	token, err := m.GenerateToken("owner@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "bookdirectstays", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidate_Expired(t *testing.T) {
	issued := time.Now().Add(-25 * time.Hour)
	m := NewManager("secret", "bookdirectstays", 24*time.Hour).WithClock(func() time.Time { return issued })
	token, err := m.GenerateToken("owner@example.com", "admin")
	require.NoError(t, err)

	m.WithClock(time.Now)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_TamperedSignature(t *testing.T) {
	m := NewManager("secret", "bookdirectstays", time.Hour)
	token, err := m.GenerateToken("owner@example.com", "admin")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewManager("secret", "bookdirectstays", time.Hour).GenerateToken("owner@example.com", "admin")
	require.NoError(t, err)

	_, err = NewManager("other", "bookdirectstays", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		Email: "owner@example.com",
		Role:  "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "bookdirectstays",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", "bookdirectstays", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := NewManager("secret", "bookdirectstays", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
