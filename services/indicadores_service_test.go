package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend_frotas/models"
)

func novoIndicadoresTeste(mock *MockPlanilha) *IndicadoresService {
	cache := NewCacheService(nil, time.Minute, nil)
	cronograma := NewCronogramaService(mock, cache, nil)
	historico := NewHistoricoService(mock, cronograma, cache, "http://g4.exemplo.com.br", nil)
	programacao := NewProgramacaoService(mock, cronograma, historico, cache, "http://g4.exemplo.com.br", nil)
	return NewIndicadoresService(mock, cronograma, historico, programacao, cache, nil)
}

func TestPorcentagemRealizadaDaProgramacao(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024},
			// Fora do cronograma de julho, não entra na meta
			{NumeroSerie: "EQ-003", Status: "ATIVO", Periodicidade: "B07", InicioPeriodicidade: 2024},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 10), StatusAtendimento: models.StatusAtendimentoValidado, CodigoOSApollo: "5001"},
		},
	}
	servico := novoIndicadoresTeste(mock)

	porcentagem, err := servico.PorcentagemRealizada(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, porcentagem, 0.001)

	realizados, err := servico.EquipamentosRealizados(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, realizados)

	meta, err := servico.MetaMensal(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, meta)
}

func TestPorcentagemRealizadaMesFechado(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024},
		},
		DadosPreventivas: []models.PreventivaMensal{
			{Data: dia(2024, 7, 1), PorcentagemRealizada: decimal.NewFromFloat(93.0), NumeroRealizado: 93},
		},
	}
	servico := novoIndicadoresTeste(mock)

	// Tabela histórica vence o recálculo da programação
	porcentagem, err := servico.PorcentagemRealizada(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.InDelta(t, 93.0, porcentagem, 0.001)

	realizados, err := servico.EquipamentosRealizados(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 93, realizados)

	// Meta retro-calculada: 93 realizados a 93% são 100 programados
	meta, err := servico.MetaMensal(context.Background(), 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 100, meta)
}

func TestIndicadoresSemDados(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			// Nada programado para julho
			{NumeroSerie: "EQ-001", Status: "ATIVO", Periodicidade: "B07", InicioPeriodicidade: 2024},
		},
	}
	servico := novoIndicadoresTeste(mock)

	_, err := servico.PorcentagemRealizada(context.Background(), 7, 2024)
	assert.ErrorIs(t, err, ErrSemDados)
}

func TestMetaMensalPorcentagemZero(t *testing.T) {
	mock := &MockPlanilha{
		DadosPreventivas: []models.PreventivaMensal{
			{Data: dia(2024, 7, 1), PorcentagemRealizada: decimal.Zero, NumeroRealizado: 0},
		},
	}
	servico := novoIndicadoresTeste(mock)

	_, err := servico.MetaMensal(context.Background(), 7, 2024)
	assert.ErrorIs(t, err, ErrSemDados)
}

func TestPreventivaPorCliente(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024, Localizacao: "Cliente B"},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024, Localizacao: "Cliente A"},
			{NumeroSerie: "EQ-003", Status: "ATIVO", Periodicidade: "A06", InicioPeriodicidade: 2024, Localizacao: "Cliente A"},
			// Não Fazer não entra no indicador do cliente
			{NumeroSerie: "EQ-004", Status: "ATIVO", Periodicidade: "B07", InicioPeriodicidade: 2024, Localizacao: "Cliente C"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-002", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 10), StatusAtendimento: models.StatusAtendimentoValidado, CodigoOSApollo: "5001"},
		},
	}
	servico := novoIndicadoresTeste(mock)

	indicadores, err := servico.PreventivaPorCliente(context.Background(), 7, 2024)
	require.NoError(t, err)

	require.Len(t, indicadores, 2)
	assert.Equal(t, "Cliente A", indicadores[0].Cliente)
	assert.Equal(t, 2, indicadores[0].Total)
	assert.Equal(t, 1, indicadores[0].Realizado)
	assert.Equal(t, 1, indicadores[0].NaoRealizado)
	assert.InDelta(t, 0.5, indicadores[0].Proporcao, 0.001)

	assert.Equal(t, "Cliente B", indicadores[1].Cliente)
	assert.Equal(t, 1, indicadores[1].Total)
	assert.Equal(t, 0, indicadores[1].Realizado)
}

func TestRankingTecnicos(t *testing.T) {
	historico := []models.AtendimentoHistorico{
		{NomeTecnico: "Bruno", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 5), StatusAtendimento: models.StatusAtendimentoValidado},
		{NomeTecnico: "Bruno", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 8), StatusAtendimento: models.StatusAtendimentoConcluido},
		{NomeTecnico: "Ana", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 12), StatusAtendimento: models.StatusAtendimentoValidado},
		// Cancelado, corretiva e fora do mês não pontuam
		{NomeTecnico: "Carlos", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 7, 15), StatusAtendimento: models.StatusAtendimentoCancelado},
		{NomeTecnico: "Carlos", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 7, 16), StatusAtendimento: models.StatusAtendimentoValidado},
		{NomeTecnico: "Carlos", TipoManutencao: models.TipoManutencaoPreventiva, DataTrabalho: dia(2024, 6, 20), StatusAtendimento: models.StatusAtendimentoValidado},
	}
	servico := novoIndicadoresTeste(&MockPlanilha{DadosHistorico: historico})

	ranking, err := servico.RankingTecnicos(context.Background(), 7, 2024)
	require.NoError(t, err)

	require.Len(t, ranking, 2)
	// Ordem crescente para o gráfico de barras horizontal
	assert.Equal(t, models.RankingTecnico{NomeTecnico: "Ana", Preventivas: 1}, ranking[0])
	assert.Equal(t, models.RankingTecnico{NomeTecnico: "Bruno", Preventivas: 2}, ranking[1])
}

func TestRankingTecnicosLimite(t *testing.T) {
	historico := make([]models.AtendimentoHistorico, 0)
	for i := 0; i < 12; i++ {
		nome := fmt.Sprintf("Tecnico %02d", i)
		for j := 0; j <= i; j++ {
			historico = append(historico, models.AtendimentoHistorico{
				NomeTecnico:       nome,
				TipoManutencao:    models.TipoManutencaoPreventiva,
				DataTrabalho:      dia(2024, 7, 10),
				StatusAtendimento: models.StatusAtendimentoValidado,
			})
		}
	}
	servico := novoIndicadoresTeste(&MockPlanilha{DadosHistorico: historico})

	ranking, err := servico.RankingTecnicos(context.Background(), 7, 2024)
	require.NoError(t, err)

	// Ficam os 10 maiores, do menor para o maior
	require.Len(t, ranking, 10)
	assert.Equal(t, 3, ranking[0].Preventivas)
	assert.Equal(t, 12, ranking[9].Preventivas)
}

func TestRankingCorretivas(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Localizacao: "Cliente A"},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Localizacao: "Cliente B"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 7, 5)},
			{NumeroSerie: "EQ-001", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 7, 8)},
			{NumeroSerie: "EQ-002", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 7, 10)},
			// Fora da janela e série desconhecida não contam
			{NumeroSerie: "EQ-001", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 4, 1)},
			{NumeroSerie: "EQ-999", TipoManutencao: models.TipoManutencaoCorretiva, DataTrabalho: dia(2024, 7, 9)},
		},
	}
	servico := novoIndicadoresTeste(mock)
	servico.historico.agora = func() time.Time {
		return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	}

	ranking, err := servico.RankingCorretivas(context.Background(), 30)
	require.NoError(t, err)

	require.Len(t, ranking, 2)
	assert.Equal(t, models.RankingCliente{Cliente: "Cliente B", Corretivas: 1}, ranking[0])
	assert.Equal(t, models.RankingCliente{Cliente: "Cliente A", Corretivas: 2}, ranking[1])
}

func TestContagemStatus(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO"},
			{NumeroSerie: "EQ-002", Status: "ATIVO"},
			{NumeroSerie: "EQ-003", Status: "ATIVO"},
			{NumeroSerie: "EQ-004", Status: "ATIVO"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 7, 1), StatusEquipamento: models.StatusOperando},
			{NumeroSerie: "EQ-002", DataTrabalho: dia(2024, 7, 2), StatusEquipamento: models.StatusEmViasDeParar},
			{NumeroSerie: "EQ-003", DataTrabalho: dia(2024, 7, 3), StatusEquipamento: models.StatusParado},
			{NumeroSerie: "EQ-004", DataTrabalho: dia(2024, 7, 4), StatusEquipamento: models.StatusParadoComRisco},
		},
	}
	servico := novoIndicadoresTeste(mock)

	contagem, err := servico.ContagemStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ContagemStatus{Operando: 1, EmViasDeParar: 1, Parado: 1, ParadoComRisco: 1}, contagem)
}

func TestDisponibilidadePorCliente(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Localizacao: "Cliente A"},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Localizacao: "Cliente A"},
			{NumeroSerie: "EQ-003", Status: "ATIVO", Localizacao: "Cliente B"},
		},
		DadosHistorico: []models.AtendimentoHistorico{
			{NumeroSerie: "EQ-001", DataTrabalho: dia(2024, 7, 1), StatusEquipamento: models.StatusOperando},
			// Em vias de parar ainda opera
			{NumeroSerie: "EQ-002", DataTrabalho: dia(2024, 7, 2), StatusEquipamento: models.StatusEmViasDeParar},
			{NumeroSerie: "EQ-003", DataTrabalho: dia(2024, 7, 3), StatusEquipamento: models.StatusParadoComRisco},
		},
	}
	servico := novoIndicadoresTeste(mock)

	disponibilidade, err := servico.DisponibilidadePorCliente(context.Background())
	require.NoError(t, err)

	require.Len(t, disponibilidade, 2)
	assert.Equal(t, models.DisponibilidadeCliente{Cliente: "Cliente A", Operando: 2, Parado: 0}, disponibilidade[0])
	assert.Equal(t, models.DisponibilidadeCliente{Cliente: "Cliente B", Operando: 0, Parado: 1}, disponibilidade[1])
}

func TestMapaCidades(t *testing.T) {
	mock := &MockPlanilha{
		DadosEquipamentos: []models.Equipamento{
			{NumeroSerie: "EQ-001", Status: "ATIVO", Cidade: "Campinas", Localizacao: "Cliente A", Classe: "GLP"},
			{NumeroSerie: "EQ-002", Status: "ATIVO", Cidade: "CAMPINAS", Localizacao: "Cliente A", Classe: "GLP"},
			{NumeroSerie: "EQ-003", Status: "ATIVO", Cidade: "Sorocaba", Localizacao: "Cliente B", Classe: "Elétrica"},
		},
		DadosCoordenadas: []models.Coordenada{
			{Cidade: "campinas", Latitude: -22.9, Longitude: -47.06},
			{Cidade: "sorocaba", Latitude: -23.5, Longitude: -47.45},
		},
	}
	servico := novoIndicadoresTeste(mock)

	mapa, err := servico.MapaCidades(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, mapa, 2)
	assert.Equal(t, "campinas", mapa[0].Cidade)
	assert.Equal(t, 2, mapa[0].Equipamentos)
	assert.InDelta(t, -22.9, mapa[0].Latitude, 0.001)
	assert.Equal(t, "sorocaba", mapa[1].Cidade)

	filtrado, err := servico.MapaCidades(context.Background(), []string{"Cliente B"}, nil)
	require.NoError(t, err)
	require.Len(t, filtrado, 1)
	assert.Equal(t, "Cliente B", filtrado[0].Cliente)

	porClasse, err := servico.MapaCidades(context.Background(), nil, []string{"GLP"})
	require.NoError(t, err)
	require.Len(t, porClasse, 1)
	assert.Equal(t, "campinas", porClasse[0].Cidade)
}

func TestPreventivaAnual(t *testing.T) {
	serie := []models.PreventivaMensal{
		{Data: dia(2024, 5, 1), PorcentagemRealizada: decimal.NewFromFloat(88.5), PorcentagemConformidade: decimal.NewFromFloat(95.1), NumeroRealizado: 80},
		{Data: dia(2024, 6, 1), PorcentagemRealizada: decimal.NewFromFloat(91.2), PorcentagemConformidade: decimal.NewFromFloat(96.3), NumeroRealizado: 84},
	}
	mock := &MockPlanilha{DadosPreventivas: serie}
	servico := novoIndicadoresTeste(mock)

	anual, err := servico.PreventivaAnual(context.Background())
	require.NoError(t, err)
	require.Len(t, anual, len(serie))
	// Decimais comparados por valor, a passagem pelo cache normaliza a
	// representação interna
	for i, esperado := range serie {
		assert.True(t, esperado.Data.Equal(anual[i].Data))
		assert.True(t, esperado.PorcentagemRealizada.Equal(anual[i].PorcentagemRealizada))
		assert.True(t, esperado.PorcentagemConformidade.Equal(anual[i].PorcentagemConformidade))
		assert.Equal(t, esperado.NumeroRealizado, anual[i].NumeroRealizado)
	}
	assert.Equal(t, 1, mock.ChamadasPreventivas)
}

func TestIndicadoresPropagamErro(t *testing.T) {
	mock := &MockPlanilha{ErroPreventivas: true, ErroRetornado: context.DeadlineExceeded}
	servico := novoIndicadoresTeste(mock)

	_, err := servico.PorcentagemRealizada(context.Background(), 7, 2024)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
