package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend_frotas/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as claims JWT emitidas pelo backend
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware valida tokens JWT emitidos localmente
type AuthMiddleware struct {
	secret string
}

// NewAuthMiddleware cria um novo AuthMiddleware a partir da configuração
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{secret: cfg.JWT.Secret}
}

// GerarToken emite um token JWT assinado para o usuário
func GerarToken(cfg *config.Config, userID uint, username, role string) (string, error) {
	agora := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(agora),
			ExpiresAt: jwt.NewNumericDate(agora.Add(cfg.JWT.ExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// RequireAuth exige um token válido para prosseguir
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extrairToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Cabeçalho Authorization é obrigatório",
			})
			c.Abort()
			return
		}

		claims, err := am.validarToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Token inválido ou expirado: " + err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// OptionalAuth valida o token quando presente, sem exigir
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extrairToken(c)
		if token != "" {
			if claims, err := am.validarToken(token); err == nil {
				c.Set("claims", claims)
				c.Set("user_id", claims.UserID)
				c.Set("username", claims.Username)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}

// validarToken confere a assinatura e as claims do token
func (am *AuthMiddleware) validarToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(am.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token inválido")
	}
	return claims, nil
}

// extrairToken obtém o token do cabeçalho Authorization
func extrairToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("authorization")
	}
	if authHeader == "" {
		return ""
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if strings.HasPrefix(authHeader, "Token ") {
		return strings.TrimPrefix(authHeader, "Token ")
	}
	return authHeader
}

// GetCurrentClaims retorna as claims do usuário autenticado, se houver
func GetCurrentClaims(c *gin.Context) *Claims {
	if v, exists := c.Get("claims"); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}
