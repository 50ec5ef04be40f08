package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// Role labels carried in a session token
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var (
	// ErrTokenExpired is returned for a well-formed token past its expiry
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, malformed tokens and wrong algorithms
	ErrTokenInvalid = errors.New("invalid token")
)

var jwtConfig *config.JWTConfig

// UserClaims represents the JWT claims for a storefront session
type UserClaims struct {
	UserID uint     `json:"id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasAnyRole reports whether the claims carry at least one of roles
func (c *UserClaims) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Initialize sets up the JWT utility with configuration
func Initialize(cfg *config.JWTConfig) {
	jwtConfig = cfg
}

// GenerateToken signs a session token for the user. Admin sessions get the
// shorter admin validity window.
func GenerateToken(userID uint, roles []string) (string, error) {
	return generateTokenAt(userID, roles, time.Now())
}

// TTL returns how long a token for the given role set stays valid
func TTL(roles []string) time.Duration {
	if jwtConfig == nil {
		return 0
	}
	claims := UserClaims{Roles: roles}
	if claims.HasAnyRole(RoleAdmin) {
		return time.Duration(jwtConfig.AdminExpirationHours) * time.Hour
	}
	return time.Duration(jwtConfig.ExpirationHours) * time.Hour
}

func generateTokenAt(userID uint, roles []string, issuedAt time.Time) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("JWT configuration not initialized")
	}

	claims := &UserClaims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TTL(roles))),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SigningKey))
}

// ValidateToken validates the token and returns the claims. Expired tokens
// yield ErrTokenExpired, everything else that fails yields ErrTokenInvalid.
func ValidateToken(tokenString string) (*UserClaims, error) {
	if jwtConfig == nil {
		return nil, errors.New("JWT configuration not initialized")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtConfig.SigningKey), nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
