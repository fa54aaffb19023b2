package utils // package utils provides helpers for the admin tokens issued by the booking API

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// ErrNotAdmin is returned for a valid token whose holder is not staff.
var ErrNotAdmin = errors.New("token does not belong to an admin")

// AdminClaims mirrors the payload the booking API signs: {id, name, email,
// is_admin} plus the registered exp/iat claims.
type AdminClaims struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// ParseAdminToken verifies an HS256 token with secret and returns the admin
// it names.  Tokens for non-admin users fail with ErrNotAdmin.
func ParseAdminToken(secret, raw string) (model.Admin, error) {
	claims := &AdminClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Admin{}, err
	}
	if !tok.Valid {
		return model.Admin{}, jwt.ErrTokenInvalidClaims
	}
	if claims.ID == "" {
		claims.ID = claims.Subject
	}
	if claims.ID == "" {
		return model.Admin{}, fmt.Errorf("%w: missing id", jwt.ErrTokenInvalidClaims)
	}
	admin := model.Admin{ID: claims.ID, Name: claims.Name, Email: claims.Email, IsAdmin: claims.IsAdmin}
	if !admin.IsAdmin {
		return admin, ErrNotAdmin
	}
	return admin, nil
}

// SignAdminToken issues a token in the booking API's format.  The service
// itself never logs anyone in; this exists for tooling and tests.
func SignAdminToken(secret string, a model.Admin, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := AdminClaims{
		ID:      a.ID,
		Name:    a.Name,
		Email:   a.Email,
		IsAdmin: a.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
