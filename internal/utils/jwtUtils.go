package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claims carried by user session tokens. Admin tokens carry AdminClaims
// instead; the two never overlap, so neither token satisfies the other's
// verifier.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateUserToken mints a session token bound to an identity id.
func GenerateUserToken(secret []byte, id primitive.ObjectID, ttl time.Duration) (string, error) {
	claims := &Claims{
		ID: id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateAdminToken mints a short-lived operator token carrying the email.
func GenerateAdminToken(secret []byte, email string, ttl time.Duration) (string, error) {
	claims := &AdminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseUserToken validates a session token and returns the identity id it
// encodes. Admin tokens fail here: they carry no id claim.
func ParseUserToken(secret []byte, tokenString string) (primitive.ObjectID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !token.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid token")
	}

	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("token carries no identity id: %w", err)
	}
	return id, nil
}
