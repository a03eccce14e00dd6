package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vitavet/vitavet-api/internal/model"
)

// Claims is the token payload the scheduling core trusts. Role and ownership
// checks happen at this boundary; services receive an already-resolved
// identity.
type Claims struct {
	UserID   uuid.UUID       `json:"user_id"`
	Role     model.UserRole  `json:"role"`
	ClinicID *uuid.UUID      `json:"clinic_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(user *model.User) (string, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

func NewJWTService(cfg JWTConfig) JWTService {
	expiry := time.Duration(cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &jwtService{
		secret: []byte(cfg.Secret),
		expiry: expiry,
		issuer: cfg.Issuer,
	}
}

func (s *jwtService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Role:     user.Role,
		ClinicID: user.ClinicID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
