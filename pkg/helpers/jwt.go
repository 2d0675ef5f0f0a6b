package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenKind string

const (
	accessToken  tokenKind = "access"
	refreshToken tokenKind = "refresh"
)

var ErrWrongTokenKind = errors.New("token kind mismatch")

// JWTManager signs and verifies the two session tokens. Each kind has its own
// secret and lifetime.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// Claims binds a token to a user and to the login session that issued it.
type Claims struct {
	UserID    string    `json:"uid"`
	SessionID string    `json:"sid"`
	Kind      tokenKind `json:"typ"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(userID, sessionID string) (string, time.Time, error) {
	return m.sign(accessToken, userID, sessionID)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID string) (string, time.Time, error) {
	return m.sign(refreshToken, userID, sessionID)
}

func (m *JWTManager) ParseAccessToken(raw string) (*Claims, error) {
	return m.parse(accessToken, raw)
}

func (m *JWTManager) ParseRefreshToken(raw string) (*Claims, error) {
	return m.parse(refreshToken, raw)
}

func (m *JWTManager) keyFor(kind tokenKind) ([]byte, time.Duration) {
	if kind == refreshToken {
		return m.RefreshSecret, m.RefreshTTL
	}
	return m.AccessSecret, m.AccessTTL
}

func (m *JWTManager) sign(kind tokenKind, userID, sessionID string) (string, time.Time, error) {
	secret, ttl := m.keyFor(kind)
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return s, exp, nil
}

func (m *JWTManager) parse(kind tokenKind, raw string) (*Claims, error) {
	secret, _ := m.keyFor(kind)
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}
