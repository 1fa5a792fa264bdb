package services

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backend_frotas/models"
)

func setupRelatorioTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Relatorio{})
	require.NoError(t, err)

	return db
}

func novoRelatorioTeste(t *testing.T, mock *MockPlanilha) (*RelatorioService, *gorm.DB) {
	db := setupRelatorioTestDB(t)
	cache := NewCacheService(nil, time.Minute, nil)
	cronograma := NewCronogramaService(mock, cache, nil)
	historico := NewHistoricoService(mock, cronograma, cache, "http://g4.exemplo.com.br", nil)
	programacao := NewProgramacaoService(mock, cronograma, historico, cache, "http://g4.exemplo.com.br", nil)
	indicadores := NewIndicadoresService(mock, cronograma, historico, programacao, cache, nil)

	servico := NewRelatorioService(db, programacao, historico, indicadores, nil)
	servico.diretorio = t.TempDir()
	return servico, db
}

func mockRelatorio() *MockPlanilha {
	return &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024, Localizacao: "Cliente A", Maquina: "F-01"},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024, Localizacao: "Cliente B"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 10), StatusAtendimento: models.StatusAtendimentoValidado, CodigoOSApollo: "5001", NomeTecnico: "Bruno", StatusEquipamento: models.StatusOperando},
		},
	}
}

func TestGerarRelatorioCSV(t *testing.T) {
	servico, db := novoRelatorioTeste(t, mockRelatorio())

	relatorio := &models.Relatorio{
		Nome:    "Programação Julho",
		Tipo:    models.TipoRelatorioProgramacao,
		Formato: models.FormatoRelatorioCSV,
		Status:  models.StatusRelatorioPendente,
		Mes:     7,
		Ano:     2024,
	}
	require.NoError(t, db.Create(relatorio).Error)

	err := servico.GerarRelatorio(context.Background(), relatorio)
	require.NoError(t, err)

	var salvo models.Relatorio
	require.NoError(t, db.First(&salvo, relatorio.ID).Error)

	assert.Equal(t, models.StatusRelatorioConcluido, salvo.Status)
	assert.Equal(t, 2, salvo.TotalRegistros)
	assert.Greater(t, salvo.TamanhoArquivo, int64(0))
	assert.NotNil(t, salvo.IniciadoEm)
	assert.NotNil(t, salvo.ConcluidoEm)
	assert.Empty(t, salvo.MensagemErro)

	conteudo, err := os.ReadFile(salvo.CaminhoArquivo)
	require.NoError(t, err)
	assert.Contains(t, string(conteudo), "NÚMERO SÉRIE")
	assert.Contains(t, string(conteudo), "EQ-001")
	assert.Contains(t, string(conteudo), string(models.SituacaoRealizado))
}

func TestGerarRelatorioJSON(t *testing.T) {
	servico, db := novoRelatorioTeste(t, mockRelatorio())

	relatorio := &models.Relatorio{
		Nome:    "Ranking Técnicos",
		Tipo:    models.TipoRelatorioTecnicos,
		Formato: models.FormatoRelatorioJSON,
		Status:  models.StatusRelatorioPendente,
		Mes:     7,
		Ano:     2024,
	}
	require.NoError(t, db.Create(relatorio).Error)

	err := servico.GerarRelatorio(context.Background(), relatorio)
	require.NoError(t, err)

	conteudo, err := os.ReadFile(relatorio.CaminhoArquivo)
	require.NoError(t, err)

	var decodificado map[string]interface{}
	require.NoError(t, json.Unmarshal(conteudo, &decodificado))
	assert.Contains(t, decodificado, "cabecalhos")
	assert.Contains(t, decodificado, "dados")
	assert.Contains(t, decodificado, "resumo")
}

func TestGerarRelatorioFalha(t *testing.T) {
	mock := mockRelatorio()
	mock.ErroEquipamentos = true
	servico, db := novoRelatorioTeste(t, mock)

	relatorio := &models.Relatorio{
		Nome:    "Programação Julho",
		Tipo:    models.TipoRelatorioProgramacao,
		Formato: models.FormatoRelatorioCSV,
		Status:  models.StatusRelatorioPendente,
		Mes:     7,
		Ano:     2024,
	}
	require.NoError(t, db.Create(relatorio).Error)

	err := servico.GerarRelatorio(context.Background(), relatorio)
	require.Error(t, err)

	var salvo models.Relatorio
	require.NoError(t, db.First(&salvo, relatorio.ID).Error)

	assert.Equal(t, models.StatusRelatorioFalhou, salvo.Status)
	assert.NotEmpty(t, salvo.MensagemErro)
	assert.NotNil(t, salvo.ConcluidoEm)
}

func TestGerarRelatorioTipoInvalido(t *testing.T) {
	servico, db := novoRelatorioTeste(t, mockRelatorio())

	relatorio := &models.Relatorio{
		Nome:    "Desconhecido",
		Tipo:    models.TipoRelatorio("inventario"),
		Formato: models.FormatoRelatorioCSV,
		Status:  models.StatusRelatorioPendente,
	}
	require.NoError(t, db.Create(relatorio).Error)

	err := servico.GerarRelatorio(context.Background(), relatorio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tipo de relatório não suportado")
}

func TestRelatorioCorretivas(t *testing.T) {
	mock := mockRelatorio()
	mock.DadosHistorico = append(mock.DadosHistorico, models.AtendimentoHistorico{
		NumeroSerie:       "EQ-002",
		TipoManutencao:    models.TipoManutencaoCorretiva,
		DataAberturaOS:    time.Now().AddDate(0, 0, -5),
		StatusAtendimento: "Em Atendimento",
		NomeTecnico:       "Ana",
	})
	servico, db := novoRelatorioTeste(t, mock)

	relatorio := &models.Relatorio{
		Nome:    "Corretivas 30 dias",
		Tipo:    models.TipoRelatorioCorretiva,
		Formato: models.FormatoRelatorioCSV,
		Status:  models.StatusRelatorioPendente,
	}
	require.NoError(t, db.Create(relatorio).Error)

	err := servico.GerarRelatorio(context.Background(), relatorio)
	require.NoError(t, err)

	// Só a corretiva entra, a preventiva fica de fora
	assert.Equal(t, 1, relatorio.TotalRegistros)

	conteudo, err := os.ReadFile(relatorio.CaminhoArquivo)
	require.NoError(t, err)
	assert.Contains(t, string(conteudo), "EQ-002")
	assert.NotContains(t, string(conteudo), "EQ-001")
}
