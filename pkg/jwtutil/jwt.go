package jwtutil

import (
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	secret     = []byte("hotelpmssecretkey")
	expiration = 24 * time.Hour
)

// Init applies the configured signing key and token lifetime
func Init(cfg *config.Config) {
	secret = []byte(cfg.JWT.SigningKey)
	expiration = cfg.JWT.ExpirationTime
}

// UserClaims represents the JWT claims for an authenticated operator
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the given operator
func GenerateToken(userID uint, username, role string) (string, error) {
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
