package services

import (
	"context"

	"backend_frotas/models"
)

// MockPlanilha mock da camada de dados para testes.
// Implementa a interface Planilha devolvendo fixtures em memória.
type MockPlanilha struct {
	// Configurações do mock
	ErroEquipamentos bool
	ErroHistorico    bool
	ErroOrdens       bool
	ErroPreventivas  bool
	ErroCoordenadas  bool
	ErroRetornado    error

	// Dados para retornar
	DadosEquipamentos []models.Equipamento
	DadosHistorico    []models.AtendimentoHistorico
	DadosOrdens       []models.OrdemPreventiva
	DadosPreventivas  []models.PreventivaMensal
	DadosCoordenadas  []models.Coordenada
	DadosLog          string

	// Contadores de chamadas
	ChamadasEquipamentos int
	ChamadasHistorico    int
	ChamadasOrdens       int
	ChamadasPreventivas  int
	ChamadasCoordenadas  int
}

// Equipamentos retorna os equipamentos do fixture
func (m *MockPlanilha) Equipamentos(ctx context.Context) ([]models.Equipamento, error) {
	m.ChamadasEquipamentos++
	if m.ErroEquipamentos {
		return nil, m.erro()
	}
	return m.DadosEquipamentos, nil
}

// Historico retorna o histórico do fixture
func (m *MockPlanilha) Historico(ctx context.Context) ([]models.AtendimentoHistorico, error) {
	m.ChamadasHistorico++
	if m.ErroHistorico {
		return nil, m.erro()
	}
	return m.DadosHistorico, nil
}

// OrdensPreventivas retorna as ordens do fixture
func (m *MockPlanilha) OrdensPreventivas(ctx context.Context) ([]models.OrdemPreventiva, error) {
	m.ChamadasOrdens++
	if m.ErroOrdens {
		return nil, m.erro()
	}
	return m.DadosOrdens, nil
}

// PreventivasMensais retorna a tabela de conformidade do fixture
func (m *MockPlanilha) PreventivasMensais(ctx context.Context) ([]models.PreventivaMensal, error) {
	m.ChamadasPreventivas++
	if m.ErroPreventivas {
		return nil, m.erro()
	}
	return m.DadosPreventivas, nil
}

// Coordenadas retorna as coordenadas do fixture
func (m *MockPlanilha) Coordenadas(ctx context.Context) ([]models.Coordenada, error) {
	m.ChamadasCoordenadas++
	if m.ErroCoordenadas {
		return nil, m.erro()
	}
	return m.DadosCoordenadas, nil
}

// UltimaAtualizacao retorna o log do fixture
func (m *MockPlanilha) UltimaAtualizacao(ctx context.Context) (string, error) {
	return m.DadosLog, nil
}

func (m *MockPlanilha) erro() error {
	if m.ErroRetornado != nil {
		return m.ErroRetornado
	}
	return ErrSemDados
}
