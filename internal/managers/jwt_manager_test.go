package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(t *testing.T) (JWTMgr, ed25519.PrivateKey) {
	t.Helper()

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return NewJWTManager(privateKey, publicKey), privateKey
}

func TestSessionTokenRoundtrip(t *testing.T) {
	jwtMgr, _ := newTestJWTManager(t)
	userId := uuid.New().String()

	token, err := jwtMgr.GenerateSessionToken(userId, "testUser", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtMgr.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, userId, claims["sub"])
	assert.Equal(t, "testUser", claims["username"])
}

func TestResetTokenRoundtrip(t *testing.T) {
	jwtMgr, _ := newTestJWTManager(t)
	userId := uuid.New().String()

	token, err := jwtMgr.GenerateResetToken(userId)
	require.NoError(t, err)

	decoded, err := jwtMgr.ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, userId, decoded)
}

func TestTokenPurposeIsEnforced(t *testing.T) {
	jwtMgr, _ := newTestJWTManager(t)
	userId := uuid.New().String()

	sessionToken, err := jwtMgr.GenerateSessionToken(userId, "testUser", false)
	require.NoError(t, err)
	resetToken, err := jwtMgr.GenerateResetToken(userId)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateResetToken(sessionToken)
	assert.Error(t, err)

	_, err = jwtMgr.ValidateSessionToken(resetToken)
	assert.Error(t, err)
}

func TestExpiredResetTokenIsRejected(t *testing.T) {
	jwtMgr, privateKey := newTestJWTManager(t)

	claims := jwt.MapClaims{
		"iss":     "blog-server",
		"iat":     time.Now().Add(-time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
		"sub":     uuid.New().String(),
		"purpose": "password_reset",
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(privateKey)
	require.NoError(t, err)

	_, err = jwtMgr.ValidateResetToken(expired)
	assert.Error(t, err)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	jwtMgr, _ := newTestJWTManager(t)

	token, err := jwtMgr.GenerateResetToken(uuid.New().String())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = jwtMgr.ValidateResetToken(tampered)
	assert.Error(t, err)
}

func TestForeignKeyIsRejected(t *testing.T) {
	jwtMgr, _ := newTestJWTManager(t)
	otherMgr, _ := newTestJWTManager(t)

	token, err := otherMgr.GenerateResetToken(uuid.New().String())
	require.NoError(t, err)

	_, err = jwtMgr.ValidateResetToken(token)
	assert.Error(t, err)
}

func TestKeyPairSurvivesRestart(t *testing.T) {
	t.Setenv("KEY_PAIR_PATH", filepath.Join(t.TempDir(), "keypair"))

	first, err := NewJWTManagerFromFile()
	require.NoError(t, err)

	token, err := first.GenerateSessionToken(uuid.New().String(), "testUser", false)
	require.NoError(t, err)

	// A second manager loads the persisted pair and accepts tokens of the first
	second, err := NewJWTManagerFromFile()
	require.NoError(t, err)

	_, err = second.ValidateSessionToken(token)
	assert.NoError(t, err)
}
