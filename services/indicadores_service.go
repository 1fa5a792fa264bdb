package services

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backend_frotas/models"
)

// ErrSemDados indica que o período consultado não tem dados suficientes para
// calcular o indicador. É uma condição esperada, não uma falha.
var ErrSemDados = errors.New("sem dados para o período")

// IndicadoresService calcula os indicadores agregados do dashboard
type IndicadoresService struct {
	planilha    Planilha
	cronograma  *CronogramaService
	historico   *HistoricoService
	programacao *ProgramacaoService
	cache       *CacheService
	logger      *log.Logger
}

// NewIndicadoresService cria um novo IndicadoresService
func NewIndicadoresService(planilha Planilha, cronograma *CronogramaService, historico *HistoricoService, programacao *ProgramacaoService, cache *CacheService, logger *log.Logger) *IndicadoresService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &IndicadoresService{
		planilha:    planilha,
		cronograma:  cronograma,
		historico:   historico,
		programacao: programacao,
		cache:       cache,
		logger:      logger,
	}
}

// preventivaMensalDoMes busca o mês na tabela histórica de conformidade.
// Para meses fechados ela é autoritativa sobre o recálculo.
func (is *IndicadoresService) preventivaMensalDoMes(ctx context.Context, mes, ano int) (*models.PreventivaMensal, error) {
	preventivas, err := is.planilha.PreventivasMensais(ctx)
	if err != nil {
		return nil, err
	}

	inicioMes := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	for _, preventiva := range preventivas {
		if preventiva.Data.Equal(inicioMes) {
			p := preventiva
			return &p, nil
		}
	}
	return nil, nil
}

// contarSituacoes conta Realizado e Não Realizado na programação do mês
func (is *IndicadoresService) contarSituacoes(ctx context.Context, mes, ano int) (realizado, naoRealizado int, err error) {
	registros, err := is.programacao.Programacao(ctx, mes, ano)
	if err != nil {
		return 0, 0, err
	}
	for _, registro := range registros {
		switch registro.Situacao {
		case models.SituacaoRealizado:
			realizado++
		case models.SituacaoNaoRealizado:
			naoRealizado++
		}
	}
	return realizado, naoRealizado, nil
}

// PorcentagemRealizada retorna o percentual de preventivas realizadas no mês.
// Usa a tabela histórica quando o mês está fechado nela; caso contrário
// recalcula da programação. Sem equipamentos programados retorna ErrSemDados,
// nunca uma divisão por zero.
func (is *IndicadoresService) PorcentagemRealizada(ctx context.Context, mes, ano int) (float64, error) {
	var porcentagem float64
	err := is.cache.Lembrar(ctx, Chave("porcentagem_realizada", mes, ano), &porcentagem, func() (interface{}, error) {
		mensal, err := is.preventivaMensalDoMes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		if mensal != nil {
			valor, _ := mensal.PorcentagemRealizada.Float64()
			return valor, nil
		}

		realizado, naoRealizado, err := is.contarSituacoes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		meta := realizado + naoRealizado
		if meta == 0 {
			return nil, ErrSemDados
		}
		return float64(realizado) / float64(meta) * 100, nil
	})
	return porcentagem, err
}

// EquipamentosRealizados retorna a quantidade de equipamentos com preventiva
// realizada no mês, preferindo a tabela histórica
func (is *IndicadoresService) EquipamentosRealizados(ctx context.Context, mes, ano int) (int, error) {
	var realizados int
	err := is.cache.Lembrar(ctx, Chave("equipamentos_realizados", mes, ano), &realizados, func() (interface{}, error) {
		mensal, err := is.preventivaMensalDoMes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		if mensal != nil {
			return mensal.NumeroRealizado, nil
		}

		realizado, _, err := is.contarSituacoes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		return realizado, nil
	})
	return realizados, err
}

// MetaMensal retorna a meta de preventivas do mês. Com o mês fechado na
// tabela histórica a meta é retro-calculada do percentual registrado;
// percentual zero equivale a ausência de dados.
func (is *IndicadoresService) MetaMensal(ctx context.Context, mes, ano int) (int, error) {
	var meta int
	err := is.cache.Lembrar(ctx, Chave("meta_mensal", mes, ano), &meta, func() (interface{}, error) {
		mensal, err := is.preventivaMensalDoMes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		if mensal != nil {
			if mensal.PorcentagemRealizada.IsZero() {
				return nil, ErrSemDados
			}
			retro := decimal.NewFromInt(int64(mensal.NumeroRealizado)).
				Mul(decimal.NewFromInt(100)).
				Div(mensal.PorcentagemRealizada)
			return int(retro.Round(0).IntPart()), nil
		}

		realizado, naoRealizado, err := is.contarSituacoes(ctx, mes, ano)
		if err != nil {
			return nil, err
		}
		return realizado + naoRealizado, nil
	})
	return meta, err
}

// PreventivaPorCliente agrega a programação do mês por cliente, ignorando os
// equipamentos fora do cronograma
func (is *IndicadoresService) PreventivaPorCliente(ctx context.Context, mes, ano int) ([]models.IndicadorCliente, error) {
	var indicadores []models.IndicadorCliente
	err := is.cache.Lembrar(ctx, Chave("preventiva_cliente", mes, ano), &indicadores, func() (interface{}, error) {
		registros, err := is.programacao.Programacao(ctx, mes, ano)
		if err != nil {
			return nil, err
		}

		porCliente := make(map[string]*models.IndicadorCliente)
		for _, registro := range registros {
			if registro.Situacao == models.SituacaoNaoFazer {
				continue
			}
			indicador, ok := porCliente[registro.Cliente]
			if !ok {
				indicador = &models.IndicadorCliente{Cliente: registro.Cliente}
				porCliente[registro.Cliente] = indicador
			}
			indicador.Total++
			if registro.Situacao == models.SituacaoRealizado {
				indicador.Realizado++
			} else {
				indicador.NaoRealizado++
			}
		}

		resultado := make([]models.IndicadorCliente, 0, len(porCliente))
		for _, indicador := range porCliente {
			indicador.Proporcao = float64(indicador.Realizado) / float64(indicador.Total)
			resultado = append(resultado, *indicador)
		}
		sort.Slice(resultado, func(i, j int) bool {
			return resultado[i].Cliente < resultado[j].Cliente
		})
		return resultado, nil
	})
	return indicadores, err
}

// RankingTecnicos retorna os 10 técnicos com mais preventivas validadas ou
// concluídas no mês, em ordem crescente de contagem
func (is *IndicadoresService) RankingTecnicos(ctx context.Context, mes, ano int) ([]models.RankingTecnico, error) {
	var ranking []models.RankingTecnico
	err := is.cache.Lembrar(ctx, Chave("ranking_tecnicos", mes, ano), &ranking, func() (interface{}, error) {
		historico, err := is.planilha.Historico(ctx)
		if err != nil {
			return nil, err
		}

		inicioMes := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
		fimMes := time.Date(ano, time.Month(mes)+1, 0, 23, 59, 0, 0, time.UTC)

		porTecnico := make(map[string]int)
		for _, atendimento := range historico {
			if atendimento.TipoManutencao != models.TipoManutencaoPreventiva {
				continue
			}
			if atendimento.DataTrabalho.Before(inicioMes) || atendimento.DataTrabalho.After(fimMes) {
				continue
			}
			if atendimento.StatusAtendimento != models.StatusAtendimentoValidado &&
				atendimento.StatusAtendimento != models.StatusAtendimentoConcluido {
				continue
			}
			porTecnico[atendimento.NomeTecnico]++
		}

		resultado := make([]models.RankingTecnico, 0, len(porTecnico))
		for tecnico, contagem := range porTecnico {
			resultado = append(resultado, models.RankingTecnico{NomeTecnico: tecnico, Preventivas: contagem})
		}
		sort.Slice(resultado, func(i, j int) bool {
			if resultado[i].Preventivas != resultado[j].Preventivas {
				return resultado[i].Preventivas < resultado[j].Preventivas
			}
			return resultado[i].NomeTecnico < resultado[j].NomeTecnico
		})
		if len(resultado) > 10 {
			resultado = resultado[len(resultado)-10:]
		}
		return resultado, nil
	})
	return ranking, err
}

// RankingCorretivas retorna os 10 clientes com mais corretivas na janela de
// dias, em ordem crescente de contagem
func (is *IndicadoresService) RankingCorretivas(ctx context.Context, dias int) ([]models.RankingCliente, error) {
	var ranking []models.RankingCliente
	err := is.cache.Lembrar(ctx, Chave("ranking_corretivas", dias), &ranking, func() (interface{}, error) {
		historico, err := is.planilha.Historico(ctx)
		if err != nil {
			return nil, err
		}

		equipamentos, err := is.planilha.Equipamentos(ctx)
		if err != nil {
			return nil, err
		}

		clientePorSerie := make(map[string]string, len(equipamentos))
		for _, equipamento := range equipamentos {
			clientePorSerie[equipamento.NumeroSerie] = equipamento.Localizacao
		}

		corte := is.historico.DataCorte(dias)
		porCliente := make(map[string]int)
		for _, atendimento := range historico {
			if atendimento.TipoManutencao != models.TipoManutencaoCorretiva {
				continue
			}
			if atendimento.DataTrabalho.Before(corte) {
				continue
			}
			cliente, ok := clientePorSerie[atendimento.NumeroSerie]
			if !ok || cliente == "" {
				continue
			}
			porCliente[cliente]++
		}

		resultado := make([]models.RankingCliente, 0, len(porCliente))
		for cliente, contagem := range porCliente {
			resultado = append(resultado, models.RankingCliente{Cliente: cliente, Corretivas: contagem})
		}
		sort.Slice(resultado, func(i, j int) bool {
			if resultado[i].Corretivas != resultado[j].Corretivas {
				return resultado[i].Corretivas < resultado[j].Corretivas
			}
			return resultado[i].Cliente < resultado[j].Cliente
		})
		if len(resultado) > 10 {
			resultado = resultado[len(resultado)-10:]
		}
		return resultado, nil
	})
	return ranking, err
}

// ContagemStatus conta os equipamentos ativos por status operacional do
// último atendimento
func (is *IndicadoresService) ContagemStatus(ctx context.Context) (models.ContagemStatus, error) {
	var contagem models.ContagemStatus
	err := is.cache.Lembrar(ctx, Chave("contagem_status"), &contagem, func() (interface{}, error) {
		ultimos, err := is.historico.UltimoAtendimentoPorEquipamento(ctx, CampoDataTrabalho)
		if err != nil {
			return nil, err
		}

		var resultado models.ContagemStatus
		for _, atendimento := range ultimos {
			switch atendimento.StatusEquipamento {
			case models.StatusOperando:
				resultado.Operando++
			case models.StatusEmViasDeParar:
				resultado.EmViasDeParar++
			case models.StatusParado:
				resultado.Parado++
			case models.StatusParadoComRisco:
				resultado.ParadoComRisco++
			}
		}
		return resultado, nil
	})
	return contagem, err
}

// DisponibilidadePorCliente resume operando x parado por cliente. Em vias de
// parar conta como operando; parado com risco conta como parado.
func (is *IndicadoresService) DisponibilidadePorCliente(ctx context.Context) ([]models.DisponibilidadeCliente, error) {
	var disponibilidade []models.DisponibilidadeCliente
	err := is.cache.Lembrar(ctx, Chave("disponibilidade_cliente"), &disponibilidade, func() (interface{}, error) {
		ultimos, err := is.historico.UltimoAtendimentoPorEquipamento(ctx, CampoDataTrabalho)
		if err != nil {
			return nil, err
		}

		ativos, err := is.cronograma.EquipamentosAtivos(ctx)
		if err != nil {
			return nil, err
		}

		clientePorSerie := make(map[string]string, len(ativos))
		for _, equipamento := range ativos {
			clientePorSerie[equipamento.NumeroSerie] = equipamento.Localizacao
		}

		porCliente := make(map[string]*models.DisponibilidadeCliente)
		for _, atendimento := range ultimos {
			cliente, ok := clientePorSerie[atendimento.NumeroSerie]
			if !ok {
				continue
			}
			resumo, ok := porCliente[cliente]
			if !ok {
				resumo = &models.DisponibilidadeCliente{Cliente: cliente}
				porCliente[cliente] = resumo
			}
			switch atendimento.StatusEquipamento {
			case models.StatusOperando, models.StatusEmViasDeParar:
				resumo.Operando++
			case models.StatusParado, models.StatusParadoComRisco:
				resumo.Parado++
			}
		}

		resultado := make([]models.DisponibilidadeCliente, 0, len(porCliente))
		for _, resumo := range porCliente {
			resultado = append(resultado, *resumo)
		}
		sort.Slice(resultado, func(i, j int) bool {
			return resultado[i].Cliente < resultado[j].Cliente
		})
		return resultado, nil
	})
	return disponibilidade, err
}

// PreventivaAnual retorna a série histórica de conformidade para o gráfico
// anual da home
func (is *IndicadoresService) PreventivaAnual(ctx context.Context) ([]models.PreventivaMensal, error) {
	var serie []models.PreventivaMensal
	err := is.cache.Lembrar(ctx, Chave("preventiva_anual"), &serie, func() (interface{}, error) {
		return is.planilha.PreventivasMensais(ctx)
	})
	return serie, err
}

// MapaCidades agrega os equipamentos ativos por cidade com as coordenadas,
// aplicando os filtros opcionais de cliente e classe
func (is *IndicadoresService) MapaCidades(ctx context.Context, clientes, classes []string) ([]models.CidadeMapa, error) {
	ativos, err := is.cronograma.EquipamentosAtivos(ctx)
	if err != nil {
		return nil, err
	}

	coordenadas, err := is.planilha.Coordenadas(ctx)
	if err != nil {
		return nil, err
	}

	coordenadaPorCidade := make(map[string]models.Coordenada, len(coordenadas))
	for _, coordenada := range coordenadas {
		coordenadaPorCidade[coordenada.Cidade] = coordenada
	}

	filtroCliente := conjuntoDe(clientes)
	filtroClasse := conjuntoDe(classes)

	type chaveMapa struct{ cidade, cliente, classe string }
	porChave := make(map[chaveMapa]int)
	for _, equipamento := range ativos {
		if len(filtroCliente) > 0 && !filtroCliente[equipamento.Localizacao] {
			continue
		}
		if len(filtroClasse) > 0 && !filtroClasse[equipamento.Classe] {
			continue
		}
		cidade := strings.ToLower(equipamento.Cidade)
		porChave[chaveMapa{cidade, equipamento.Localizacao, equipamento.Classe}]++
	}

	resultado := make([]models.CidadeMapa, 0, len(porChave))
	for chave, contagem := range porChave {
		coordenada := coordenadaPorCidade[chave.cidade]
		resultado = append(resultado, models.CidadeMapa{
			Cidade:       chave.cidade,
			Cliente:      chave.cliente,
			Classe:       chave.classe,
			Latitude:     coordenada.Latitude,
			Longitude:    coordenada.Longitude,
			Equipamentos: contagem,
		})
	}
	sort.Slice(resultado, func(i, j int) bool {
		if resultado[i].Cidade != resultado[j].Cidade {
			return resultado[i].Cidade < resultado[j].Cidade
		}
		return resultado[i].Cliente < resultado[j].Cliente
	})
	return resultado, nil
}

// conjuntoDe transforma uma lista em conjunto para filtro
func conjuntoDe(valores []string) map[string]bool {
	conjunto := make(map[string]bool, len(valores))
	for _, valor := range valores {
		if valor != "" {
			conjunto[valor] = true
		}
	}
	return conjunto
}
