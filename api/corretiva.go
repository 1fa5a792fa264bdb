package api

import (
	"net/http"

	"backend_frotas/services"

	"github.com/gin-gonic/gin"
)

// CorretivaAPI serve as visões operacionais de corretivas
type CorretivaAPI struct {
	historico   *services.HistoricoService
	indicadores *services.IndicadoresService
	tratador    *TratadorErros
}

// NewCorretivaAPI cria uma nova instância de CorretivaAPI
func NewCorretivaAPI(historico *services.HistoricoService, indicadores *services.IndicadoresService, tratador *TratadorErros) *CorretivaAPI {
	return &CorretivaAPI{
		historico:   historico,
		indicadores: indicadores,
		tratador:    tratador,
	}
}

// RegisterRoutes registra as rotas da corretiva
func (ca *CorretivaAPI) RegisterRoutes(router *gin.RouterGroup) {
	corretiva := router.Group("/corretiva")
	{
		corretiva.GET("/indicadores", ca.GetIndicadores)
		corretiva.GET("/atendimentos", ca.GetAtendimentos)
		corretiva.GET("/pendencias", ca.GetPendencias)
		corretiva.GET("/vias-de-parar", ca.GetEmViasDeParar)
		corretiva.GET("/parados", ca.GetParados)
		corretiva.GET("/disponibilidade", ca.GetDisponibilidade)
	}
}

// GetIndicadores retorna a contagem de equipamentos por status operacional
func (ca *CorretivaAPI) GetIndicadores(c *gin.Context) {
	contagem, err := ca.indicadores.ContagemStatus(c.Request.Context())
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/indicadores", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": contagem})
}

// GetAtendimentos retorna os atendimentos dos últimos N dias
func (ca *CorretivaAPI) GetAtendimentos(c *gin.Context) {
	dias := ParseDias(c, 30)

	atendimentos, err := ca.historico.UltimosAtendimentos(c.Request.Context(), dias)
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/atendimentos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": atendimentos, "dias": dias})
}

// GetPendencias retorna os equipamentos cujo último estado tem pendência
func (ca *CorretivaAPI) GetPendencias(c *gin.Context) {
	dias := ParseDias(c, 30)

	pendencias, err := ca.historico.Pendencias(c.Request.Context(), dias)
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/pendencias", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": pendencias, "dias": dias})
}

// GetEmViasDeParar retorna os equipamentos em vias de parar na janela
func (ca *CorretivaAPI) GetEmViasDeParar(c *gin.Context) {
	dias := ParseDias(c, 30)

	equipamentos, err := ca.historico.EmViasDeParar(c.Request.Context(), dias)
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/vias-de-parar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": equipamentos, "dias": dias})
}

// GetParados retorna os equipamentos parados na janela
func (ca *CorretivaAPI) GetParados(c *gin.Context) {
	dias := ParseDias(c, 30)

	equipamentos, err := ca.historico.Parados(c.Request.Context(), dias)
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/parados", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": equipamentos, "dias": dias})
}

// GetDisponibilidade retorna operando x parado por cliente
func (ca *CorretivaAPI) GetDisponibilidade(c *gin.Context) {
	disponibilidade, err := ca.indicadores.DisponibilidadePorCliente(c.Request.Context())
	if err != nil {
		ca.tratador.ResponderErro(c, "corretiva/disponibilidade", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": disponibilidade})
}
