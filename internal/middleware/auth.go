package middleware

import (
	"net/http"
	"strings"

	"audio-mixing-backend/internal/dto"
	"audio-mixing-backend/internal/models"
	"audio-mixing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// AuthRequired validates the Bearer token and injects user id and role into
// both the gin and request contexts.
func AuthRequired(tokens service.TokenProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, tokens, log)
		if !ok {
			return
		}
		apply(c, claims)
		c.Next()
	}
}

// OptionalAuth injects user info when a valid token is present and lets the
// request through anonymously otherwise. Guest checkout endpoints use it.
func OptionalAuth(tokens service.TokenProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz != "" {
			token, ok := ExtractBearerToken(authz)
			if ok && token != "" {
				if claims, err := tokens.ParseAndValidateAccess(c.Request.Context(), token); err == nil {
					apply(c, claims)
				}
			}
		}
		c.Next()
	}
}

// RoleRequired gates a route group to the listed roles. Must run after
// AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("insufficient role"))
	}
}

func authenticate(c *gin.Context, tokens service.TokenProvider, log *zap.Logger) (*service.Claims, bool) {
	authz := c.GetHeader("Authorization")
	if authz == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
		return nil, false
	}
	token, ok := ExtractBearerToken(authz)
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
		return nil, false
	}

	claims, err := tokens.ParseAndValidateAccess(c.Request.Context(), token)
	if err != nil {
		log.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
		return nil, false
	}
	return claims, true
}

func apply(c *gin.Context, claims *service.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUserRole, claims.Role)
	ctx := service.WithUserID(c.Request.Context(), claims.UserID)
	ctx = service.WithRole(ctx, models.Role(claims.Role))
	c.Request = c.Request.WithContext(ctx)
}

// ExtractBearerToken pulls the token out of an Authorization header, tolerant
// of stray quotes and trailing junk some clients attach.
// The admin panel sends tokens as "<userId>|<jwt>"; the numeric-or-uuid
// prefix is stripped so only the JWT is parsed.
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	t = strings.Trim(t, " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")

	// "<userId>|<jwt>" form: keep the part after the last pipe if it looks
	// like a JWT and the prefix is an id.
	if i := strings.LastIndexByte(t, '|'); i >= 0 {
		prefix, rest := t[:i], t[i+1:]
		if strings.Count(rest, ".") == 2 && isIDPrefix(prefix) {
			t = rest
		}
	}
	return t, true
}

func isIDPrefix(s string) bool {
	if s == "" {
		return false
	}
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
