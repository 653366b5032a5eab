package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
)

const principalKey = "auth.principal"

// Principal is the authenticated caller as resolved from a bearer token.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     string
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWT.Secret),
		ttl:    time.Duration(cfg.JWT.TTLMinutes) * time.Minute,
	}
}

func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid token.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid token claims.")
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthorized, "Invalid token subject.")
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &Principal{ID: id, Username: username, Role: role}, nil
}

// RequireToken rejects requests without a valid bearer token and stores the
// principal on the gin context for handlers downstream.
func (m *TokenManager) RequireToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    string(apperr.CodeUnauthorized),
				Message: "Missing bearer token.",
			})
			return
		}

		principal, err := m.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    string(apperr.CodeUnauthorized),
				Message: "Invalid or expired token.",
			})
			return
		}

		ctx.Set(principalKey, *principal)
		ctx.Next()
	}
}

// RequireAdmin must run after RequireToken.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := CurrentPrincipal(ctx)
		if !ok || !principal.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code:    string(apperr.CodeForbidden),
				Message: "Admin role required.",
			})
			return
		}
		ctx.Next()
	}
}

func CurrentPrincipal(ctx *gin.Context) (Principal, bool) {
	value, exists := ctx.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
