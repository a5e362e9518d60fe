// Package auth validates the bearer tokens issued by the ERP and mints
// service tokens for operators.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "inventra/internal/core/context"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "inventra",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string   `json:"uid"`
	Email        string   `json:"email,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	BranchIDs    []string `json:"branches,omitempty"`
	ActiveBranch string   `json:"branch,omitempty"`
	IsSuperAdmin bool     `json:"adm,omitempty"`
}

// TokenRequest describes the user a token is minted for.
type TokenRequest struct {
	UserID       string
	Email        string
	Roles        []string
	BranchIDs    []string
	ActiveBranch string
	IsSuperAdmin bool
}

// JWTService handles JWT operations.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if config.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if config.AccessTokenTTL <= 0 {
		config.AccessTokenTTL = DefaultJWTConfig(config.Secret).AccessTokenTTL
	}
	return &JWTService{config: config}, nil
}

// GenerateAccessToken signs an HS256 token for req.
func (s *JWTService) GenerateAccessToken(req TokenRequest) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   req.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:       req.UserID,
		Email:        req.Email,
		Roles:        req.Roles,
		BranchIDs:    req.BranchIDs,
		ActiveBranch: req.ActiveBranch,
		IsSuperAdmin: req.IsSuperAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates JWT and returns user context.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token has no user id")
	}

	return &appctx.UserContext{
		UserID:         claims.UserID,
		Email:          claims.Email,
		Roles:          claims.Roles,
		BranchIDs:      claims.BranchIDs,
		ActiveBranchID: claims.ActiveBranch,
		IsSuperAdmin:   claims.IsSuperAdmin,
	}, nil
}
