package jwtverify

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicPEM(t *testing.T, pub any) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(username string) jwt.MapClaims {
	return jwt.MapClaims{
		"username": username,
		"sub":      username,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Add(-time.Minute).Unix(),
	}
}

func TestVerifier_RS256(t *testing.T) {
	key := newRSAKey(t)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "RS256")
	require.NoError(t, err)

	claims, err := v.Verify(sign(t, jwt.SigningMethodRS256, key, validClaims("alice")))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifier_ES256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "ES256")
	require.NoError(t, err)

	claims, err := v.Verify(sign(t, jwt.SigningMethodES256, key, validClaims("bob")))
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
}

func TestVerifier_EdDSA(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	v, err := NewVerifier(publicPEM(t, pub), "EdDSA")
	require.NoError(t, err)

	_, err = v.Verify(sign(t, jwt.SigningMethodEdDSA, priv, validClaims("carol")))
	assert.NoError(t, err)
}

func TestVerifier_RejectsAlgorithmConfusion(t *testing.T) {
	key := newRSAKey(t)
	pubPEM := publicPEM(t, &key.PublicKey)
	v, err := NewVerifier(pubPEM, "RS256")
	require.NoError(t, err)

	t.Run("hmac signed with public key bytes", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, pubPEM, validClaims("mallory"))
		_, err := v.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("unsigned", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("mallory"))
		_, err := v.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("other rsa algorithm", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodRS384, key, validClaims("mallory"))
		_, err := v.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestVerifier_RejectsWrongKey(t *testing.T) {
	v, err := NewVerifier(publicPEM(t, &newRSAKey(t).PublicKey), "RS256")
	require.NoError(t, err)

	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, newRSAKey(t), validClaims("alice")))
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifier_RejectsExpired(t *testing.T) {
	key := newRSAKey(t)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "RS256")
	require.NoError(t, err)

	claims := validClaims("alice")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, claims))
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifier_LeewayAcceptsRecentlyExpired(t *testing.T) {
	key := newRSAKey(t)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "RS256", WithLeeway(time.Minute))
	require.NoError(t, err)

	claims := validClaims("alice")
	claims["exp"] = time.Now().Add(-10 * time.Second).Unix()

	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, claims))
	assert.NoError(t, err)
}

func TestVerifier_MissingUsername(t *testing.T) {
	key := newRSAKey(t)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "RS256")
	require.NoError(t, err)

	claims := validClaims("alice")
	delete(claims, "username")

	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, claims))
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifier_IssuerAndAudience(t *testing.T) {
	key := newRSAKey(t)
	v, err := NewVerifier(publicPEM(t, &key.PublicKey), "RS256", WithIssuer("auth.example"), WithAudience("notes"))
	require.NoError(t, err)

	claims := validClaims("alice")
	claims["iss"] = "auth.example"
	claims["aud"] = "notes"
	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, claims))
	assert.NoError(t, err)

	claims["aud"] = "billing"
	_, err = v.Verify(sign(t, jwt.SigningMethodRS256, key, claims))
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifier_Malformed(t *testing.T) {
	v, err := NewVerifier(publicPEM(t, &newRSAKey(t).PublicKey), "RS256")
	require.NoError(t, err)

	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := v.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken), token)
	}
}

func TestNewVerifier_RejectsSymmetricAndMismatchedKeys(t *testing.T) {
	rsaPEM := publicPEM(t, &newRSAKey(t).PublicKey)

	_, err := NewVerifier(rsaPEM, "HS256")
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))

	_, err = NewVerifier(rsaPEM, "none")
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))

	_, err = NewVerifier(rsaPEM, "XY999")
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))

	_, err = NewVerifier(rsaPEM, "ES256")
	assert.True(t, errors.Is(err, ErrInvalidPublicKey))

	_, err = NewVerifier([]byte("not a key"), "RS256")
	assert.True(t, errors.Is(err, ErrInvalidPublicKey))
}
