package services

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"backend_frotas/models"
)

// ProgramacaoService reconcilia o cronograma projetado com as ordens de
// serviço programadas e o histórico de atendimentos do mês
type ProgramacaoService struct {
	planilha   Planilha
	cronograma *CronogramaService
	historico  *HistoricoService
	cache      *CacheService
	linkBase   string
	logger     *log.Logger
}

// NewProgramacaoService cria um novo ProgramacaoService. linkBase é o
// endereço do sistema de chamados usado para montar o link das OS.
func NewProgramacaoService(planilha Planilha, cronograma *CronogramaService, historico *HistoricoService, cache *CacheService, linkBase string, logger *log.Logger) *ProgramacaoService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProgramacaoService{
		planilha:   planilha,
		cronograma: cronograma,
		historico:  historico,
		cache:      cache,
		linkBase:   linkBase,
		logger:     logger,
	}
}

// LinkOS monta o link do chamado a partir do código da sub-ordem: o
// identificador é o prefixo antes do primeiro '-'. Sem separador ou sem
// código o link é vazio, nunca um erro.
func LinkOS(linkBase, codigoG4 string) string {
	separador := strings.Index(codigoG4, "-")
	if separador < 0 {
		return ""
	}
	return linkBase + "/os/detalhar/" + codigoG4[:separador]
}

// LinkOS monta o link do chamado usando a base configurada no serviço
func (ps *ProgramacaoService) LinkOS(codigoG4 string) string {
	return LinkOS(ps.linkBase, codigoG4)
}

// contagemAtendimentos acumula os atendimentos de uma série no período
type contagemAtendimentos struct {
	total      []models.AtendimentoHistorico
	concluidos []models.AtendimentoHistorico
	codigosOS  map[string]bool
}

// Programacao produz um registro reconciliado por equipamento ativo para o
// mês/ano alvo. Regras:
//   - a ordem de serviço do mês é a que tem data no primeiro dia do mês
//     (a primeira quando a planilha traz duplicatas);
//   - contam apenas inspeções preventivas com data de trabalho no mês;
//   - série com mais de um código de OS distinto no período tem as contagens
//     restritas ao código da ordem casada; sem ordem casada as contagens
//     ficam como estão;
//   - Realizado exige ao menos um atendimento e todos concluídos;
//   - equipamento fora do cronograma fica Não Fazer, haja o que houver no
//     histórico.
func (ps *ProgramacaoService) Programacao(ctx context.Context, mes, ano int) ([]models.RegistroProgramacao, error) {
	var registros []models.RegistroProgramacao
	err := ps.cache.Lembrar(ctx, Chave("programacao", mes, ano), &registros, func() (interface{}, error) {
		return ps.montarProgramacao(ctx, mes, ano)
	})
	return registros, err
}

func (ps *ProgramacaoService) montarProgramacao(ctx context.Context, mes, ano int) ([]models.RegistroProgramacao, error) {
	cronograma, err := ps.cronograma.Cronograma(ctx, mes, ano)
	if err != nil {
		return nil, err
	}

	ordens, err := ps.planilha.OrdensPreventivas(ctx)
	if err != nil {
		return nil, err
	}

	historico, err := ps.planilha.Historico(ctx)
	if err != nil {
		return nil, err
	}

	ultimos, err := ps.historico.UltimoAtendimentoPorEquipamento(ctx, CampoDataTrabalho)
	if err != nil {
		return nil, err
	}

	inicioMes := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	fimMes := time.Date(ano, time.Month(mes)+1, 0, 23, 59, 0, 0, time.UTC)

	// Ordem de serviço do mês por série, a primeira vence
	ordemPorSerie := make(map[string]string)
	for _, ordem := range ordens {
		if !ordem.Data.Equal(inicioMes) {
			continue
		}
		if _, existe := ordemPorSerie[ordem.NumeroSerie]; !existe {
			ordemPorSerie[ordem.NumeroSerie] = ordem.NumeroOS
		}
	}

	// Inspeções preventivas do período agrupadas por série
	eventosMes := make([]models.AtendimentoHistorico, 0)
	porSerie := make(map[string]*contagemAtendimentos)
	for _, atendimento := range historico {
		if atendimento.TipoManutencao != models.TipoManutencaoPreventiva {
			continue
		}
		if atendimento.DataTrabalho.Before(inicioMes) || atendimento.DataTrabalho.After(fimMes) {
			continue
		}
		eventosMes = append(eventosMes, atendimento)

		contagem, ok := porSerie[atendimento.NumeroSerie]
		if !ok {
			contagem = &contagemAtendimentos{codigosOS: make(map[string]bool)}
			porSerie[atendimento.NumeroSerie] = contagem
		}
		contagem.total = append(contagem.total, atendimento)
		if atendimento.Concluido() {
			contagem.concluidos = append(contagem.concluidos, atendimento)
		}
		contagem.codigosOS[atendimento.CodigoOSApollo] = true
	}

	// Horímetro atual por série
	horimetroPorSerie := make(map[string]string, len(ultimos))
	for _, atendimento := range ultimos {
		horimetroPorSerie[atendimento.NumeroSerie] = atendimento.Horimetro
	}

	registros := make([]models.RegistroProgramacao, 0, len(cronograma))
	for _, linha := range cronograma {
		numeroOS := ordemPorSerie[linha.Serie]

		total := 0
		concluidos := 0
		if contagem, ok := porSerie[linha.Serie]; ok {
			total = len(contagem.total)
			concluidos = len(contagem.concluidos)

			if len(contagem.codigosOS) > 1 && numeroOS != "" {
				total = contarPorCodigo(contagem.total, numeroOS)
				concluidos = contarPorCodigo(contagem.concluidos, numeroOS)
			}
		}
		realizado := total > 0 && concluidos == total

		// Sub-ordens e status da OS casada, para auditoria
		osG4 := make([]string, 0)
		statusG4 := make([]string, 0)
		if numeroOS != "" {
			for _, atendimento := range eventosMes {
				if atendimento.CodigoOSApollo == numeroOS {
					osG4 = append(osG4, atendimento.CodigoOSG4)
					statusG4 = append(statusG4, atendimento.StatusAtendimento)
				}
			}
		}

		link := ""
		if len(osG4) > 0 {
			link = ps.LinkOS(osG4[0])
		}

		situacao := models.SituacaoNaoFazer
		if linha.Programado {
			if realizado {
				situacao = models.SituacaoRealizado
			} else {
				situacao = models.SituacaoNaoRealizado
			}
		}

		registros = append(registros, models.RegistroProgramacao{
			NumeroSerie:    linha.Serie,
			Frota:          linha.Maquina,
			Modelo:         linha.Modelo,
			Cliente:        linha.Localizacao,
			Classe:         linha.Classe,
			Cidade:         linha.Cidade,
			HorimetroAtual: horimetroPorSerie[linha.Serie],
			Link:           link,
			OSApollo:       numeroOS,
			Situacao:       situacao,
			OSG4:           osG4,
			StatusG4:       statusG4,
		})
	}

	return registros, nil
}

// contarPorCodigo conta os atendimentos cujo código de OS casa com o informado
func contarPorCodigo(atendimentos []models.AtendimentoHistorico, numeroOS string) int {
	contagem := 0
	for _, atendimento := range atendimentos {
		if atendimento.CodigoOSApollo == numeroOS {
			contagem++
		}
	}
	return contagem
}
