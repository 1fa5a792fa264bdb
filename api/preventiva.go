package api

import (
	"errors"
	"net/http"

	"backend_frotas/services"

	"github.com/gin-gonic/gin"
)

// PreventivaAPI serve a programação preventiva e seus indicadores
type PreventivaAPI struct {
	programacao *services.ProgramacaoService
	indicadores *services.IndicadoresService
	tratador    *TratadorErros
}

// NewPreventivaAPI cria uma nova instância de PreventivaAPI
func NewPreventivaAPI(programacao *services.ProgramacaoService, indicadores *services.IndicadoresService, tratador *TratadorErros) *PreventivaAPI {
	return &PreventivaAPI{
		programacao: programacao,
		indicadores: indicadores,
		tratador:    tratador,
	}
}

// RegisterRoutes registra as rotas da preventiva
func (pa *PreventivaAPI) RegisterRoutes(router *gin.RouterGroup) {
	preventiva := router.Group("/preventiva")
	{
		preventiva.GET("/indicadores", pa.GetIndicadores)
		preventiva.GET("/programacao", pa.GetProgramacao)
		preventiva.GET("/clientes", pa.GetPorCliente)
		preventiva.GET("/tecnicos", pa.GetRankingTecnicos)
	}
}

// GetIndicadores retorna porcentagem realizada, realizados e meta do mês
func (pa *PreventivaAPI) GetIndicadores(c *gin.Context) {
	mes, ano, err := ParsePeriodo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	semDados := false

	porcentagem, err := pa.indicadores.PorcentagemRealizada(ctx, mes, ano)
	if err != nil {
		if !errors.Is(err, services.ErrSemDados) {
			pa.tratador.ResponderErro(c, "preventiva/indicadores", err)
			return
		}
		semDados = true
	}

	realizados, err := pa.indicadores.EquipamentosRealizados(ctx, mes, ano)
	if err != nil && !errors.Is(err, services.ErrSemDados) {
		pa.tratador.ResponderErro(c, "preventiva/indicadores", err)
		return
	}

	meta, err := pa.indicadores.MetaMensal(ctx, mes, ano)
	if err != nil {
		if !errors.Is(err, services.ErrSemDados) {
			pa.tratador.ResponderErro(c, "preventiva/indicadores", err)
			return
		}
		semDados = true
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"mes":         mes,
			"ano":         ano,
			"porcentagem": porcentagem,
			"realizados":  realizados,
			"meta":        meta,
			"sem_dados":   semDados,
		},
	})
}

// GetProgramacao retorna a tabela reconciliada da programação do mês
func (pa *PreventivaAPI) GetProgramacao(c *gin.Context) {
	mes, ano, err := ParsePeriodo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	registros, err := pa.programacao.Programacao(c.Request.Context(), mes, ano)
	if err != nil {
		pa.tratador.ResponderErro(c, "preventiva/programacao", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   registros,
		"mes":    mes,
		"ano":    ano,
	})
}

// GetPorCliente retorna o indicador de preventivas por cliente no mês
func (pa *PreventivaAPI) GetPorCliente(c *gin.Context) {
	mes, ano, err := ParsePeriodo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	indicadores, err := pa.indicadores.PreventivaPorCliente(c.Request.Context(), mes, ano)
	if err != nil {
		pa.tratador.ResponderErro(c, "preventiva/clientes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": indicadores})
}

// GetRankingTecnicos retorna o ranking de preventivas por técnico no mês
func (pa *PreventivaAPI) GetRankingTecnicos(c *gin.Context) {
	mes, ano, err := ParsePeriodo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	ranking, err := pa.indicadores.RankingTecnicos(c.Request.Context(), mes, ano)
	if err != nil {
		pa.tratador.ResponderErro(c, "preventiva/tecnicos", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ranking})
}
