package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"platebook/internal/models"
)

// Token lifetimes. Registration hands out a longer-lived access token
// so a fresh signup survives the initial profile setup flow.
const (
	AccessTokenTTL   = 30 * time.Minute
	RegisterTokenTTL = time.Hour
	RefreshTokenTTL  = 24 * time.Hour
)

// UserClaims is the safe user projection embedded in signed tokens.
// The password hash and stored refresh token never appear here.
type UserClaims struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	Headline       string `json:"headline,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	jwt.RegisteredClaims
}

func claimsFor(user *models.User, ttl time.Duration) *UserClaims {
	now := time.Now()
	return &UserClaims{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName,
		Headline:       user.Headline,
		ProfilePicture: user.ProfilePicture,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func signToken(user *models.User, ttl time.Duration, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFor(user, ttl))
	return token.SignedString([]byte(secret))
}

// issueAccessToken signs a short-lived access token for the user.
func (s *Server) issueAccessToken(user *models.User, ttl time.Duration) (string, error) {
	return signToken(user, ttl, s.config.AccessSecret)
}

// issueRefreshToken signs a refresh token for the user.
func (s *Server) issueRefreshToken(user *models.User) (string, error) {
	return signToken(user, RefreshTokenTTL, s.config.RefreshSecret)
}

// Sentinel errors for token verification failures. Callers branch on
// expiry vs everything else when choosing a response.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

func parseToken(raw, secret string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// parseAccessToken verifies an access token against the access secret.
func (s *Server) parseAccessToken(raw string) (*UserClaims, error) {
	return parseToken(raw, s.config.AccessSecret)
}

// parseRefreshToken verifies a refresh token against the refresh secret.
func (s *Server) parseRefreshToken(raw string) (*UserClaims, error) {
	return parseToken(raw, s.config.RefreshSecret)
}
