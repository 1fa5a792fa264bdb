package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"backend_frotas/database"

	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"
)

// RateLimitConfig configura a limitação de frequência de requisições
type RateLimitConfig struct {
	Requisicoes int
	Janela      time.Duration
	ChavePara   func(*gin.Context) string
}

// ChavePorIP gera a chave de limitação pelo IP do cliente
func ChavePorIP(c *gin.Context) string {
	return c.ClientIP()
}

// ChavePorUsuario gera a chave pelo usuário autenticado, com o IP de reserva
func ChavePorUsuario(c *gin.Context) string {
	if claims := GetCurrentClaims(c); claims != nil {
		return "user:" + strconv.FormatUint(uint64(claims.UserID), 10)
	}
	return c.ClientIP()
}

// RateLimit limita a frequência de requisições por chave usando o Redis.
// Sem Redis disponível a limitação é desligada, nunca bloqueia o serviço.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := database.GetRedis()
		if redisClient == nil {
			c.Next()
			return
		}

		chave := "rate_limit:" + config.ChavePara(c)

		atual, err := redisClient.Get(database.Ctx, chave).Int()
		if err != nil && err != redis.Nil {
			c.Next()
			return
		}

		if atual >= config.Requisicoes {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requisicoes))
			c.Header("X-RateLimit-Remaining", "0")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error":  fmt.Sprintf("Muitas requisições. Limite: %d por %v", config.Requisicoes, config.Janela),
			})
			c.Abort()
			return
		}

		pipe := redisClient.Pipeline()
		pipe.Incr(database.Ctx, chave)
		if atual == 0 {
			pipe.Expire(database.Ctx, chave, config.Janela)
		}
		if _, err := pipe.Exec(database.Ctx); err != nil {
			c.Next()
			return
		}

		restante := config.Requisicoes - atual - 1
		if restante < 0 {
			restante = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requisicoes))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(restante))

		c.Next()
	}
}

// LoginRateLimit limita tentativas de login por IP
func LoginRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Requisicoes: 5,
		Janela:      time.Minute,
		ChavePara:   ChavePorIP,
	})
}

// APIRateLimit limita as consultas do dashboard por usuário
func APIRateLimit() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Requisicoes: 300,
		Janela:      time.Minute,
		ChavePara:   ChavePorUsuario,
	})
}
