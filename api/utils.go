package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"backend_frotas/config"
	"backend_frotas/services"

	"github.com/gin-gonic/gin"
)

// ParseMes interpreta o mês vindo da query: aceita o número (1-12) ou o
// nome em português, em qualquer caixa
func ParseMes(valor string) (int, error) {
	valor = strings.ToLower(strings.TrimSpace(valor))
	if valor == "" {
		return 0, fmt.Errorf("mês vazio")
	}

	if numero, err := strconv.Atoi(valor); err == nil {
		if numero < 1 || numero > 12 {
			return 0, fmt.Errorf("mês fora do intervalo: %d", numero)
		}
		return numero, nil
	}

	if numero, ok := config.Meses[valor]; ok {
		return numero, nil
	}
	return 0, fmt.Errorf("mês inválido: %s", valor)
}

// ParsePeriodo lê mes e ano da query, com o mês corrente como padrão
func ParsePeriodo(c *gin.Context) (int, int, error) {
	agora := time.Now()
	mes := int(agora.Month())
	ano := agora.Year()

	if valor := c.Query("mes"); valor != "" {
		parsed, err := ParseMes(valor)
		if err != nil {
			return 0, 0, err
		}
		mes = parsed
	}

	if valor := c.Query("ano"); valor != "" {
		parsed, err := strconv.Atoi(valor)
		if err != nil || parsed < 2000 || parsed > 2100 {
			return 0, 0, fmt.Errorf("ano inválido: %s", valor)
		}
		ano = parsed
	}

	return mes, ano, nil
}

// ParseDias lê a janela em dias da query, limitada a 30/60/90
func ParseDias(c *gin.Context, padrao int) int {
	valor := c.Query("dias")
	if valor == "" {
		return padrao
	}
	dias, err := strconv.Atoi(valor)
	if err != nil {
		return padrao
	}
	switch dias {
	case 30, 60, 90:
		return dias
	}
	return padrao
}

// TratadorErros padroniza as respostas de falha dos handlers.
// Timeouts são recuperáveis: o cache é descartado e o cliente recebe 503
// para tentar de novo. Qualquer outra falha vira 500 e vai para o canal
// da operação no Telegram, sem detalhes internos na resposta.
type TratadorErros struct {
	Cache       *services.CacheService
	Notificador services.NotificadorOperador
	Logger      *log.Logger
}

// NewTratadorErros cria um novo TratadorErros
func NewTratadorErros(cache *services.CacheService, notificador services.NotificadorOperador, logger *log.Logger) *TratadorErros {
	if logger == nil {
		logger = log.New(os.Stdout, "API: ", log.LstdFlags)
	}
	return &TratadorErros{Cache: cache, Notificador: notificador, Logger: logger}
}

// ResponderErro responde a falha de uma operação conforme sua natureza
func (te *TratadorErros) ResponderErro(c *gin.Context, operacao string, err error) {
	if ehTimeout(err) {
		te.Logger.Printf("⚠️ Timeout em %s: %v", operacao, err)
		if te.Cache != nil {
			te.Cache.Limpar(c.Request.Context())
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Carregando. Por favor aguarde",
		})
		return
	}

	te.Logger.Printf("❌ Erro em %s: %v", operacao, err)
	if te.Notificador != nil {
		if notifErr := te.Notificador.NotificarOperador(fmt.Sprintf("Erro em %s: %v", operacao, err)); notifErr != nil {
			te.Logger.Printf("⚠️ Falha ao notificar operador: %v", notifErr)
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"status": "error",
		"error":  "Favor contate o administrador",
	})
}

// ehTimeout identifica erros de prazo esgotado em qualquer camada
func ehTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
