package services

import (
	"context"
	"testing"
	"time"

	"backend_frotas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoHistoricoTeste(mock *MockPlanilha) *HistoricoService {
	cache := NewCacheService(nil, time.Minute, nil)
	cronograma := NewCronogramaService(mock, cache, nil)
	return NewHistoricoService(mock, cronograma, cache, "http://g4.exemplo.com.br", nil)
}

func dia(ano int, mes time.Month, dia int) time.Time {
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}

func TestUltimoAtendimentoPorEquipamento(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO"},
			{NumeroSerie: "EQ-002", Status: "ATIVO"},
			{NumeroSerie: "EQ-003", Status: "ATIVO"},
			{NumeroSerie: "EQ-004", Status: "INATIVO"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 6, 10), StatusEquipamento: models.StatusOperando, CodigoOSApollo: "1001"},
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 6, 20), StatusEquipamento: models.StatusParado, CodigoOSApollo: "1002"},
			// Sem status de equipamento não conta como observação de estado
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 6, 25), StatusEquipamento: "", CodigoOSApollo: "1003"},
			{NumeroSerie: "EQ-002", DataTrabalho: dia(2024, 6, 5), StatusEquipamento: models.StatusOperando, CodigoOSApollo: "2001"},
			{NumeroSerie: "EQ-004", DataTrabalho: dia(2024, 6, 1), StatusEquipamento: models.StatusOperando, CodigoOSApollo: "4001"},
		},
	}
	servico := novoHistoricoTeste(mock)

	ultimos, err := servico.UltimoAtendimentoPorEquipamento(context.Background(), CampoDataTrabalho)
	require.NoError(t, err)

	// EQ-003 sem histórico não gera linha; EQ-004 inativo também não
	require.Len(t, ultimos, 2)
	assert.Equal(t, "EQ-001", ultimos[0].NumeroSerie)
	assert.Equal(t, "1002", ultimos[0].CodigoOSApollo)
	assert.Equal(t, models.StatusParado, ultimos[0].StatusEquipamento)
	assert.Equal(t, "EQ-002", ultimos[1].NumeroSerie)
}

func TestUltimoAtendimentoPorCampoData(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			// Mais recente por data de trabalho, mais antigo por abertura de OS
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 6, 20), DataAberturaOS: dia(2024, 6, 1), StatusEquipamento: models.StatusOperando, CodigoOSApollo: "1001"},
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 6, 10), DataAberturaOS: dia(2024, 6, 15), StatusEquipamento: models.StatusParado, CodigoOSApollo: "1002"},
		},
	}
	servico := novoHistoricoTeste(mock)

	porTrabalho, err := servico.UltimoAtendimentoPorEquipamento(context.Background(), CampoDataTrabalho)
	require.NoError(t, err)
	require.Len(t, porTrabalho, 1)
	assert.Equal(t, "1001", porTrabalho[0].CodigoOSApollo)

	porAbertura, err := servico.UltimoAtendimentoPorEquipamento(context.Background(), CampoDataAberturaOS)
	require.NoError(t, err)
	require.Len(t, porAbertura, 1)
	assert.Equal(t, "1002", porAbertura[0].CodigoOSApollo)
}

func TestDataCorte(t *testing.T) {
	servico := novoHistoricoTeste(&MockPlanilha{})
	servico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 14, 30, 45, 0, time.UTC)
	}

	corte := servico.DataCorte(30)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), corte)
}

func TestDataCorteForaDeUTC(t *testing.T) {
	servico := novoHistoricoTeste(&MockPlanilha{})
	brasilia := time.FixedZone("BRT", -3*60*60)
	servico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 14, 30, 45, 0, brasilia)
	}

	// As datas da planilha são UTC; o corte não pode carregar o fuso do servidor
	corte := servico.DataCorte(30)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), corte)
}

func TestUltimosAtendimentosForaDeUTC(t *testing.T) {
	mock := &MockPlanilha{
		DadosHistorico: []models.AtendimentoHistorico{
			{CodigoOSApollo: "1001", DataAberturaOS: dia(2024, 6, 15)},
		},
	}
	servico := novoHistoricoTeste(mock)
	brasilia := time.FixedZone("BRT", -3*60*60)
	servico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 12, 0, 0, 0, brasilia)
	}

	// Aberto exatamente no dia do corte, entra na janela mesmo com o
	// servidor fora de UTC
	recentes, err := servico.UltimosAtendimentos(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, recentes, 1)
	assert.Equal(t, "1001", recentes[0].CodigoOSApollo)
}

func TestUltimosAtendimentos(t *testing.T) {
	mock := &MockPlanilha{
		DadosHistorico: []models.AtendimentoHistorico{
			{CodigoOSApollo: "1001", DataAberturaOS: dia(2024, 7, 1)},
			{CodigoOSApollo: "1002", CodigoOSG4: "7001-1", DataAberturaOS: dia(2024, 7, 10)},
			{CodigoOSApollo: "1003", DataAberturaOS: dia(2024, 5, 1)}, // fora da janela
		},
	}
	servico := novoHistoricoTeste(mock)
	servico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	}

	recentes, err := servico.UltimosAtendimentos(context.Background(), 30)
	require.NoError(t, err)

	require.Len(t, recentes, 2)
	assert.Equal(t, "1002", recentes[0].CodigoOSApollo)
	assert.Equal(t, "http://g4.exemplo.com.br/os/detalhar/7001", recentes[0].Link)
	assert.Equal(t, "1001", recentes[1].CodigoOSApollo)
	// Sem código G4 não há link
	assert.Equal(t, "", recentes[1].Link)
}

func TestPendenciasEStatus(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO"},
			{NumeroSerie: "EQ-002", Status: "ATIVO"},
			{NumeroSerie: "EQ-003", Status: "ATIVO"},
			{NumeroSerie: "EQ-004", Status: "ATIVO"},
			{NumeroSerie: "EQ-005", Status: "ATIVO"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 7, 10), StatusEquipamento: models.StatusEmViasDeParar},
			{NumeroSerie: "EQ-002", DataTrabalho: dia(2024, 7, 5), StatusEquipamento: models.StatusParado, Pendencia: "Sim", CodigoOSG4: "8002-1"},
			{NumeroSerie: "EQ-003", DataTrabalho: dia(2024, 7, 8), StatusEquipamento: models.StatusParadoComRisco},
			{NumeroSerie: "EQ-004", DataTrabalho: dia(2024, 7, 12), StatusEquipamento: models.StatusOperando, Pendencia: "Sim"},
			// Fora da janela de 30 dias
			{NumeroSerie: "EQ-005", DataTrabalho: dia(2024, 4, 1), StatusEquipamento: models.StatusParado, Pendencia: "Sim"},
		},
	}
	servico := novoHistoricoTeste(mock)
	servico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	}

	emVias, err := servico.EmViasDeParar(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, emVias, 1)
	assert.Equal(t, "EQ-001", emVias[0].NumeroSerie)

	parados, err := servico.Parados(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, parados, 2)
	// Do mais antigo para o mais recente
	assert.Equal(t, "EQ-002", parados[0].NumeroSerie)
	assert.Equal(t, "http://g4.exemplo.com.br/os/detalhar/8002", parados[0].Link)
	assert.Equal(t, "EQ-003", parados[1].NumeroSerie)

	pendencias, err := servico.Pendencias(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, pendencias, 2)
	assert.Equal(t, "EQ-002", pendencias[0].NumeroSerie)
	assert.Equal(t, "EQ-004", pendencias[1].NumeroSerie)
}

func TestUltimaAtualizacaoHistorico(t *testing.T) {
	mock := &MockPlanilha{DadosLog: "15/07/2024 06:00:12"}
	servico := novoHistoricoTeste(mock)

	carimbo, err := servico.UltimaAtualizacao(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "15/07/2024 06:00:12", carimbo)
}
