package api

import (
	"net/http"
	"strings"

	"backend_frotas/services"

	"github.com/gin-gonic/gin"
)

// DashboardAPI serve os dados da página inicial do dashboard
type DashboardAPI struct {
	cronograma  *services.CronogramaService
	historico   *services.HistoricoService
	indicadores *services.IndicadoresService
	cache       *services.CacheService
	tratador    *TratadorErros
}

// NewDashboardAPI cria uma nova instância de DashboardAPI
func NewDashboardAPI(cronograma *services.CronogramaService, historico *services.HistoricoService, indicadores *services.IndicadoresService, cache *services.CacheService, tratador *TratadorErros) *DashboardAPI {
	return &DashboardAPI{
		cronograma:  cronograma,
		historico:   historico,
		indicadores: indicadores,
		cache:       cache,
		tratador:    tratador,
	}
}

// RegisterRoutes registra as rotas do dashboard
func (da *DashboardAPI) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/clientes", da.GetClientes)
		dashboard.GET("/classes", da.GetClasses)
		dashboard.GET("/mapa", da.GetMapa)
		dashboard.GET("/preventiva-anual", da.GetPreventivaAnual)
		dashboard.GET("/ranking-corretivas", da.GetRankingCorretivas)
		dashboard.GET("/ultima-atualizacao", da.GetUltimaAtualizacao)
	}

	router.POST("/recarregar", da.Recarregar)
}

// GetClientes retorna a lista de clientes com equipamentos ativos
func (da *DashboardAPI) GetClientes(c *gin.Context) {
	clientes, err := da.cronograma.Clientes(c.Request.Context())
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/clientes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": clientes})
}

// GetClasses retorna a lista de classes de equipamento ativas
func (da *DashboardAPI) GetClasses(c *gin.Context) {
	classes, err := da.cronograma.Classes(c.Request.Context())
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/classes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": classes})
}

// GetMapa retorna os equipamentos por cidade com coordenadas,
// filtrável por clientes e classes separados por vírgula
func (da *DashboardAPI) GetMapa(c *gin.Context) {
	clientes := separarFiltro(c.Query("clientes"))
	classes := separarFiltro(c.Query("classes"))

	cidades, err := da.indicadores.MapaCidades(c.Request.Context(), clientes, classes)
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/mapa", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": cidades})
}

// GetPreventivaAnual retorna a série histórica mensal de preventivas
func (da *DashboardAPI) GetPreventivaAnual(c *gin.Context) {
	serie, err := da.indicadores.PreventivaAnual(c.Request.Context())
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/preventiva-anual", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": serie})
}

// GetRankingCorretivas retorna o ranking de corretivas por cliente na janela
func (da *DashboardAPI) GetRankingCorretivas(c *gin.Context) {
	dias := ParseDias(c, 30)

	ranking, err := da.indicadores.RankingCorretivas(c.Request.Context(), dias)
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/ranking-corretivas", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ranking, "dias": dias})
}

// GetUltimaAtualizacao retorna o carimbo da última carga da planilha
func (da *DashboardAPI) GetUltimaAtualizacao(c *gin.Context) {
	atualizacao, err := da.historico.UltimaAtualizacao(c.Request.Context())
	if err != nil {
		da.tratador.ResponderErro(c, "dashboard/ultima-atualizacao", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": atualizacao})
}

// Recarregar descarta todo o cache para forçar nova leitura da planilha
func (da *DashboardAPI) Recarregar(c *gin.Context) {
	da.cache.Limpar(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Cache recarregado",
	})
}

// separarFiltro divide um filtro separado por vírgulas, descartando vazios
func separarFiltro(valor string) []string {
	if valor == "" {
		return nil
	}
	partes := strings.Split(valor, ",")
	resultado := make([]string, 0, len(partes))
	for _, p := range partes {
		p = strings.TrimSpace(p)
		if p != "" {
			resultado = append(resultado, p)
		}
	}
	return resultado
}
