package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "blog-server"

	purposeSession = "session"
	purposeReset   = "password_reset"

	sessionLifetime    = 24 * time.Hour
	rememberedLifetime = 30 * 24 * time.Hour

	// ResetTokenLifetime bounds how long an issued password-reset token stays valid.
	ResetTokenLifetime = 30 * time.Minute
)

// JWTMgr handles the signing and verification of the two token kinds the application issues:
// session tokens bound to a browser cookie and self-contained password-reset tokens.
type JWTMgr interface {
	GenerateSessionToken(userId, username string, remember bool) (string, error)
	ValidateSessionToken(tokenString string) (jwt.MapClaims, error)
	GenerateResetToken(userId string) (string, error)
	ValidateResetToken(tokenString string) (string, error)
}

// JWTManager implements JWTMgr with a single ed25519 key pair.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a new JWTManager with the given key pair.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile loads the key pair from KEY_PAIR_PATH, generating and persisting
// a fresh pair on first start.
func NewJWTManagerFromFile() (JWTMgr, error) {
	path := os.Getenv("KEY_PAIR_PATH")

	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return NewJWTManager(privateKey, publicKey), nil
}

// GenerateSessionToken signs a session token for the given identity.
// A remembered session outlives browser restarts and carries the longer expiry.
func (jm *JWTManager) GenerateSessionToken(userId, username string, remember bool) (string, error) {
	lifetime := sessionLifetime
	if remember {
		lifetime = rememberedLifetime
	}

	claims := jwt.MapClaims{
		"iss":      issuer,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(lifetime).Unix(),
		"sub":      userId,
		"username": username,
		"purpose":  purposeSession,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateSessionToken verifies the given session token and returns its claims if valid.
func (jm *JWTManager) ValidateSessionToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := jm.validate(tokenString)
	if err != nil {
		return nil, err
	}

	if purpose, _ := claims["purpose"].(string); purpose != purposeSession {
		return nil, fmt.Errorf("token is not a session token")
	}

	return claims, nil
}

// GenerateResetToken signs a time-limited token encoding the given user identity.
// The token is self-contained and never stored.
func (jm *JWTManager) GenerateResetToken(userId string) (string, error) {
	claims := jwt.MapClaims{
		"iss":     issuer,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ResetTokenLifetime).Unix(),
		"sub":     userId,
		"purpose": purposeReset,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateResetToken verifies the given reset token and returns the encoded user ID.
// It rejects expired tokens, tampered signatures and tokens issued for another purpose.
func (jm *JWTManager) ValidateResetToken(tokenString string) (string, error) {
	claims, err := jm.validate(tokenString)
	if err != nil {
		return "", err
	}

	if purpose, _ := claims["purpose"].(string); purpose != purposeReset {
		return "", fmt.Errorf("token is not a reset token")
	}

	userId, ok := claims["sub"].(string)
	if !ok || userId == "" {
		return "", fmt.Errorf("token carries no subject")
	}

	return userId, nil
}

func (jm *JWTManager) validate(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}

	return claims, nil
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	if err = saveKeyPair(privateKey, publicKey, path); err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) != ed25519.PrivateKeySize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return keyPairBytes[:ed25519.PrivateKeySize], keyPairBytes[ed25519.PrivateKeySize:], nil
}
