package api

import (
	"net/http"

	"backend_frotas/config"
	"backend_frotas/middleware"
	"backend_frotas/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthAPI fornece o endpoint de autenticação do dashboard
type AuthAPI struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthAPI cria uma nova instância de AuthAPI
func NewAuthAPI(db *gorm.DB, cfg *config.Config) *AuthAPI {
	return &AuthAPI{db: db, cfg: cfg}
}

// RegisterRoutes registra as rotas públicas de autenticação
func (aa *AuthAPI) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", aa.Login)
	}
}

// RegisterProtectedRoutes registra as rotas que exigem autenticação
func (aa *AuthAPI) RegisterProtectedRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/me", aa.Me)
	}
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login autentica o usuário e emite um token JWT
func (aa *AuthAPI) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Usuário e senha são obrigatórios",
		})
		return
	}

	var user models.User
	err := aa.db.Where("username = ? AND is_active = ?", req.Username, true).First(&user).Error
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Credenciais inválidas",
		})
		return
	}

	token, err := middleware.GerarToken(aa.cfg, user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Erro ao gerar token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"name":     user.Name,
				"role":     user.Role,
			},
		},
	})
}

// Me retorna os dados do usuário autenticado
func (aa *AuthAPI) Me(c *gin.Context) {
	claims := middleware.GetCurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Não autenticado",
		})
		return
	}

	var user models.User
	if err := aa.db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "Usuário não encontrado",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   user,
	})
}
