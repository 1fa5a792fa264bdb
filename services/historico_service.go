package services

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"backend_frotas/models"
)

// CampoData seleciona a coluna de data usada para ordenar o histórico
type CampoData string

const (
	CampoDataTrabalho   CampoData = "DATA TRABALHO"
	CampoDataAberturaOS CampoData = "DATA ABERTURA OS"
)

// HistoricoService resolve visões derivadas do histórico de atendimentos
type HistoricoService struct {
	planilha   Planilha
	cronograma *CronogramaService
	cache      *CacheService
	linkBase   string
	logger     *log.Logger
	agora      func() time.Time
}

// NewHistoricoService cria um novo HistoricoService. linkBase é o
// endereço do sistema de chamados usado para montar o link das OS.
func NewHistoricoService(planilha Planilha, cronograma *CronogramaService, cache *CacheService, linkBase string, logger *log.Logger) *HistoricoService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &HistoricoService{
		planilha:   planilha,
		cronograma: cronograma,
		cache:      cache,
		linkBase:   linkBase,
		logger:     logger,
		agora:      time.Now,
	}
}

// dataCampo extrai do atendimento a coluna de data escolhida
func dataCampo(atendimento models.AtendimentoHistorico, campo CampoData) time.Time {
	if campo == CampoDataAberturaOS {
		return atendimento.DataAberturaOS
	}
	return atendimento.DataTrabalho
}

// UltimoAtendimentoPorEquipamento reduz o histórico a um atendimento por
// equipamento ativo: o mais recente entre os que registraram status do
// equipamento. Séries ausentes do histórico não geram linha; nenhuma série
// aparece duas vezes. Idempotente para um mesmo snapshot.
func (hs *HistoricoService) UltimoAtendimentoPorEquipamento(ctx context.Context, campo CampoData) ([]models.AtendimentoHistorico, error) {
	var ultimos []models.AtendimentoHistorico
	err := hs.cache.Lembrar(ctx, Chave("ultimo_atendimento", string(campo)), &ultimos, func() (interface{}, error) {
		ativos, err := hs.cronograma.EquipamentosAtivos(ctx)
		if err != nil {
			return nil, err
		}

		historico, err := hs.planilha.Historico(ctx)
		if err != nil {
			return nil, err
		}

		porSerie := make(map[string][]models.AtendimentoHistorico)
		for _, atendimento := range historico {
			if atendimento.StatusEquipamento == "" {
				continue
			}
			porSerie[atendimento.NumeroSerie] = append(porSerie[atendimento.NumeroSerie], atendimento)
		}

		resultado := make([]models.AtendimentoHistorico, 0, len(ativos))
		for _, equipamento := range ativos {
			eventos, ok := porSerie[equipamento.NumeroSerie]
			if !ok {
				continue
			}
			sort.SliceStable(eventos, func(i, j int) bool {
				return dataCampo(eventos[i], campo).Before(dataCampo(eventos[j], campo))
			})
			resultado = append(resultado, eventos[len(eventos)-1])
		}
		return resultado, nil
	})
	return ultimos, err
}

// DataCorte retorna a meia-noite de hoje menos a quantidade de dias,
// em UTC, o mesmo fuso em que as datas da planilha são interpretadas
func (hs *HistoricoService) DataCorte(dias int) time.Time {
	corte := hs.agora().UTC().AddDate(0, 0, -dias)
	return time.Date(corte.Year(), corte.Month(), corte.Day(), 0, 0, 0, 0, time.UTC)
}

// UltimosAtendimentos lista os atendimentos abertos na janela de dias,
// do mais recente para o mais antigo, com o link do chamado
func (hs *HistoricoService) UltimosAtendimentos(ctx context.Context, dias int) ([]models.AtendimentoHistorico, error) {
	var recentes []models.AtendimentoHistorico
	err := hs.cache.Lembrar(ctx, Chave("ultimos_atendimentos", dias), &recentes, func() (interface{}, error) {
		historico, err := hs.planilha.Historico(ctx)
		if err != nil {
			return nil, err
		}

		corte := hs.DataCorte(dias)
		resultado := make([]models.AtendimentoHistorico, 0)
		for _, atendimento := range historico {
			if !atendimento.DataAberturaOS.Before(corte) {
				atendimento.Link = LinkOS(hs.linkBase, atendimento.CodigoOSG4)
				resultado = append(resultado, atendimento)
			}
		}
		sort.SliceStable(resultado, func(i, j int) bool {
			return resultado[i].DataAberturaOS.After(resultado[j].DataAberturaOS)
		})
		return resultado, nil
	})
	return recentes, err
}

// filtrarUltimos reduz o último atendimento por equipamento à janela de dias
// e aos status informados, do mais antigo para o mais recente
func (hs *HistoricoService) filtrarUltimos(ctx context.Context, dias int, aceita func(models.AtendimentoHistorico) bool) ([]models.AtendimentoHistorico, error) {
	ultimos, err := hs.UltimoAtendimentoPorEquipamento(ctx, CampoDataTrabalho)
	if err != nil {
		return nil, err
	}

	corte := hs.DataCorte(dias)
	resultado := make([]models.AtendimentoHistorico, 0)
	for _, atendimento := range ultimos {
		if atendimento.DataTrabalho.Before(corte) {
			continue
		}
		if aceita(atendimento) {
			atendimento.Link = LinkOS(hs.linkBase, atendimento.CodigoOSG4)
			resultado = append(resultado, atendimento)
		}
	}
	sort.SliceStable(resultado, func(i, j int) bool {
		return resultado[i].DataTrabalho.Before(resultado[j].DataTrabalho)
	})
	return resultado, nil
}

// EmViasDeParar lista equipamentos cujo último atendimento os marcou em vias
// de parar dentro da janela de dias
func (hs *HistoricoService) EmViasDeParar(ctx context.Context, dias int) ([]models.AtendimentoHistorico, error) {
	return hs.filtrarUltimos(ctx, dias, func(a models.AtendimentoHistorico) bool {
		return a.StatusEquipamento == models.StatusEmViasDeParar
	})
}

// Parados lista equipamentos parados (com ou sem risco) na janela de dias
func (hs *HistoricoService) Parados(ctx context.Context, dias int) ([]models.AtendimentoHistorico, error) {
	return hs.filtrarUltimos(ctx, dias, func(a models.AtendimentoHistorico) bool {
		return a.StatusEquipamento == models.StatusParado || a.StatusEquipamento == models.StatusParadoComRisco
	})
}

// Pendencias lista equipamentos cujo último atendimento registrou pendência
func (hs *HistoricoService) Pendencias(ctx context.Context, dias int) ([]models.AtendimentoHistorico, error) {
	return hs.filtrarUltimos(ctx, dias, func(a models.AtendimentoHistorico) bool {
		return a.Pendencia == "Sim"
	})
}

// UltimaAtualizacao retorna o carimbo da última carga registrada na planilha
func (hs *HistoricoService) UltimaAtualizacao(ctx context.Context) (string, error) {
	var carimbo string
	err := hs.cache.Lembrar(ctx, Chave("ultima_atualizacao"), &carimbo, func() (interface{}, error) {
		return hs.planilha.UltimaAtualizacao(ctx)
	})
	return carimbo, err
}
