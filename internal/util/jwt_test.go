package util

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateHS256(t *testing.T) {
	tok, err := IssueToken("user-1", "a@example.com", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)

	_, err = ValidateJWT(tok, "other")
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	tok, err := IssueToken("user-1", "", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(tok, "s3cret")
	assert.Error(t, err)
}

func TestValidateRequiresKeyAndSubject(t *testing.T) {
	_, err := IssueToken("u", "", "", time.Hour)
	assert.Error(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ValidateJWT(tok, "k")
	assert.Error(t, err)

	_, err = ValidateJWT(tok, "")
	assert.Error(t, err)
}

func TestValidateES256(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	tok, err := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Subject:   "user-2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(priv)
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, pubPEM)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)

	_, err = ParseRSAPublicKey(pubPEM)
	assert.Error(t, err)
}
