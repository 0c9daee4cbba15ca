// Package auth provides password hashing and bearer-token issuance and
// verification for the API.
package auth

import (
	"strconv"
	"time"

	"pawtopia/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "pawtopia-api"
	tokenAudience = "pawtopia-client"

	// DefaultTokenTTL is the token lifetime when the config does not set one.
	DefaultTokenTTL = 24 * time.Hour
)

// Tokens issues and verifies signed bearer tokens carrying a user id claim.
// It is constructed from explicit configuration; nothing here reads ambient
// global state.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token service with the given HMAC secret and lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token whose subject is the given user id.
func (t *Tokens) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, expiry, issuer and audience, and returns the user
// id claim. Every failure path collapses to the same unauthorized error; the
// caller learns nothing about why a token was rejected.
func (t *Tokens) Verify(tokenString string) (uint, error) {
	unauthorized := models.NewUnauthorizedError("Invalid or expired token")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, unauthorized
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, unauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, unauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, unauthorized
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, unauthorized
	}
	return uint(userID), nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
