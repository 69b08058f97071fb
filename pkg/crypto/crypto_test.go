package crypto

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("supersecret")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", hashed)

	require.NoError(t, ComparePassword(hashed, "supersecret"))
	require.Error(t, ComparePassword(hashed, "wrongpassword"))
}

func TestHMAC(t *testing.T) {
	a := HMAC(sha256.New, []byte("payload"), []byte("secret"))
	b := HMAC(sha256.New, []byte("payload"), []byte("secret"))
	require.Equal(t, a, b)

	require.NotEqual(t, a, HMAC(sha256.New, []byte("payload"), []byte("another")))
	require.NotEqual(t, a, HMAC(sha256.New, []byte("other"), []byte("secret")))
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString()
	require.NoError(t, err)

	b, err := GenerateRandomString()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
