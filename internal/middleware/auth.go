package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/view"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/jwtutil"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"
	"github.com/4lovek5346534/git-Supreme-Cofe/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	claimsKey = "claims"
	userIDKey = "user_id"
	rolesKey  = "roles"
)

// LoginPath is where page requests without a session are sent
const LoginPath = "/login"

type failure int

const (
	passed failure = iota
	missingToken
	sessionExpired
	invalidToken
	forbidden
)

func (f failure) String() string {
	switch f {
	case missingToken:
		return "missing_token"
	case sessionExpired:
		return "session_expired"
	case invalidToken:
		return "invalid_token"
	case forbidden:
		return "forbidden"
	}
	return "ok"
}

// Gate checks session tokens. The token is read from the session cookie and,
// failing that, from an Authorization: Bearer header.
type Gate struct {
	cookieName string
}

func NewGate(cookieName string) *Gate {
	return &Gate{cookieName: cookieName}
}

func (g *Gate) token(c echo.Context) string {
	if cookie, err := c.Cookie(g.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (g *Gate) check(c echo.Context, roles []string) (*jwtutil.UserClaims, failure) {
	raw := g.token(c)
	if raw == "" {
		return nil, missingToken
	}

	claims, err := jwtutil.ValidateToken(raw)
	switch {
	case errors.Is(err, jwtutil.ErrTokenExpired):
		return nil, sessionExpired
	case err != nil:
		return nil, invalidToken
	}

	if len(roles) > 0 && !claims.HasAnyRole(roles...) {
		return claims, forbidden
	}
	return claims, passed
}

func attach(c echo.Context, claims *jwtutil.UserClaims) {
	c.Set(claimsKey, claims)
	c.Set(userIDKey, claims.UserID)
	c.Set(rolesKey, claims.Roles)
	logger.Attach(c, logger.FromContext(c).With(zap.Uint("user_id", claims.UserID)))
}

func (g *Gate) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: g.cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

// RequirePage guards server-rendered pages: no session redirects to the login
// page, a dead session renders the session-expired page, a missing role
// renders access denied
func (g *Gate) RequirePage(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			prometheus.AuthAttemptsCounter.Inc()

			claims, result := g.check(c, roles)
			if result != passed {
				prometheus.RecordAuthError(result.String())
				log.Warn("Page access rejected", zap.String("reason", result.String()), zap.String("path", c.Path()))
			}

			switch result {
			case missingToken:
				return c.Redirect(http.StatusFound, LoginPath)
			case sessionExpired, invalidToken:
				g.clearCookie(c)
				return c.Render(http.StatusUnauthorized, "session_expired", view.Page{Title: "Session expired"})
			case forbidden:
				return c.Render(http.StatusForbidden, "access_denied", view.Page{Title: "Access denied"})
			}

			attach(c, claims)
			return next(c)
		}
	}
}

// RequireAPI guards JSON endpoints with structured errors
func (g *Gate) RequireAPI(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			prometheus.AuthAttemptsCounter.Inc()

			claims, result := g.check(c, roles)
			if result != passed {
				prometheus.RecordAuthError(result.String())
				log.Warn("API access rejected", zap.String("reason", result.String()), zap.String("path", c.Path()))
			}

			switch result {
			case missingToken:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			case sessionExpired, invalidToken:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired, please log in again", "code": "session_expired"})
			case forbidden:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}

			attach(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth attaches the caller's identity when a valid session is
// present and never rejects
func (g *Gate) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, result := g.check(c, nil); result == passed {
				attach(c, claims)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the claims attached by one of the gates
func CurrentUser(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims, ok
}

// GetUserIDFromContext retrieves the authenticated user's ID.
// Returns 0, false if no session is attached.
func GetUserIDFromContext(c echo.Context) (uint, bool) {
	userID, ok := c.Get(userIDKey).(uint)
	return userID, ok
}

// IsAdmin reports whether the attached session carries the ADMIN role
func IsAdmin(c echo.Context) bool {
	claims, ok := CurrentUser(c)
	return ok && claims.HasAnyRole(jwtutil.RoleAdmin)
}
