package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"backend_frotas/middleware"
	"backend_frotas/models"
	"backend_frotas/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RelatoriosAPI fornece o CRUD e o download dos relatórios exportados
type RelatoriosAPI struct {
	db        *gorm.DB
	relatorio *services.RelatorioService
	tratador  *TratadorErros
}

// NewRelatoriosAPI cria uma nova instância de RelatoriosAPI
func NewRelatoriosAPI(db *gorm.DB, relatorio *services.RelatorioService, tratador *TratadorErros) *RelatoriosAPI {
	return &RelatoriosAPI{db: db, relatorio: relatorio, tratador: tratador}
}

// RegisterRoutes registra as rotas de relatórios
func (ra *RelatoriosAPI) RegisterRoutes(router *gin.RouterGroup) {
	relatorios := router.Group("/relatorios")
	{
		relatorios.GET("", ra.GetRelatorios)
		relatorios.POST("", ra.CreateRelatorio)
		relatorios.GET("/:id", ra.GetRelatorio)
		relatorios.GET("/:id/download", ra.DownloadRelatorio)
	}
}

// CreateRelatorioRequest representa a requisição de criação de relatório
type CreateRelatorioRequest struct {
	Nome    string                  `json:"nome"`
	Tipo    models.TipoRelatorio    `json:"tipo" binding:"required"`
	Formato models.FormatoRelatorio `json:"formato" binding:"required"`
	Mes     string                  `json:"mes"`
	Ano     int                     `json:"ano"`
}

// GetRelatorios retorna a lista de relatórios gerados
func (ra *RelatoriosAPI) GetRelatorios(c *gin.Context) {
	query := ra.db.Model(&models.Relatorio{})

	if tipo := c.Query("tipo"); tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset := (page - 1) * limit

	var total int64
	query.Count(&total)

	var relatorios []models.Relatorio
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&relatorios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Erro ao listar relatórios",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   relatorios,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// CreateRelatorio cria o relatório e dispara a geração em segundo plano
func (ra *RelatoriosAPI) CreateRelatorio(c *gin.Context) {
	var req CreateRelatorioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	agora := time.Now()
	mes := int(agora.Month())
	ano := agora.Year()

	if req.Mes != "" {
		parsed, err := ParseMes(req.Mes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
			return
		}
		mes = parsed
	}
	if req.Ano != 0 {
		ano = req.Ano
	}

	nome := req.Nome
	if nome == "" {
		nome = fmt.Sprintf("Relatório %s %02d/%d", req.Tipo, mes, ano)
	}

	relatorio := models.Relatorio{
		Nome:    nome,
		Tipo:    req.Tipo,
		Formato: req.Formato,
		Status:  models.StatusRelatorioPendente,
		Mes:     mes,
		Ano:     ano,
	}

	if claims := middleware.GetCurrentClaims(c); claims != nil {
		relatorio.CriadoPorID = claims.UserID
	}

	if err := ra.db.Create(&relatorio).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Erro ao criar relatório",
		})
		return
	}

	// A geração lê a planilha e pode demorar, roda fora da requisição
	go func(id uint) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var r models.Relatorio
		if err := ra.db.First(&r, id).Error; err != nil {
			return
		}
		ra.relatorio.GerarRelatorio(ctx, &r)
	}(relatorio.ID)

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   relatorio,
	})
}

// GetRelatorio retorna um relatório pelo ID
func (ra *RelatoriosAPI) GetRelatorio(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "ID inválido"})
		return
	}

	var relatorio models.Relatorio
	if err := ra.db.First(&relatorio, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Relatório não encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": relatorio})
}

// DownloadRelatorio entrega o arquivo de um relatório concluído
func (ra *RelatoriosAPI) DownloadRelatorio(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "ID inválido"})
		return
	}

	var relatorio models.Relatorio
	if err := ra.db.First(&relatorio, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Relatório não encontrado"})
		return
	}

	if relatorio.Status != models.StatusRelatorioConcluido {
		c.JSON(http.StatusConflict, gin.H{
			"status": "error",
			"error":  fmt.Sprintf("Relatório ainda não concluído (status: %s)", relatorio.Status),
		})
		return
	}

	if _, err := os.Stat(relatorio.CaminhoArquivo); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Arquivo do relatório não encontrado"})
		return
	}

	c.FileAttachment(relatorio.CaminhoArquivo, filepath.Base(relatorio.CaminhoArquivo))
}
