// server/internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"safaipak-api-server/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Manager issues and verifies admin tokens. The admin password is only kept
// as a bcrypt hash.
type Manager struct {
	secret     []byte
	expiration time.Duration
	adminEmail string
	adminHash  string
	now        func() time.Time
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		expiration: expiration,
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		adminHash:  hash,
		now:        time.Now,
	}, nil
}

// Login checks the admin credentials and returns a signed token.
func (m *Manager) Login(email, password string) (string, error) {
	if strings.ToLower(strings.TrimSpace(email)) != m.adminEmail || !CheckPasswordHash(password, m.adminHash) {
		return "", ErrInvalidCredentials
	}
	return m.GenerateJWT(m.adminEmail, RoleAdmin)
}

func (m *Manager) GenerateJWT(email, role string) (string, error) {
	now := m.now()
	claims := &JWTClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ParseJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
