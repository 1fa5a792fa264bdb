package services

import (
	"context"
	"io"
	"log"
	"sort"

	"backend_frotas/models"
)

// CronogramaService projeta o cronograma de preventivas para um mês alvo
type CronogramaService struct {
	planilha Planilha
	cache    *CacheService
	logger   *log.Logger
}

// NewCronogramaService cria um novo CronogramaService
func NewCronogramaService(planilha Planilha, cache *CacheService, logger *log.Logger) *CronogramaService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CronogramaService{planilha: planilha, cache: cache, logger: logger}
}

// EquipamentosAtivos retorna os equipamentos com status ATIVO no cadastro
func (cs *CronogramaService) EquipamentosAtivos(ctx context.Context) ([]models.Equipamento, error) {
	var ativos []models.Equipamento
	err := cs.cache.Lembrar(ctx, Chave("equipamentos_ativos"), &ativos, func() (interface{}, error) {
		equipamentos, err := cs.planilha.Equipamentos(ctx)
		if err != nil {
			return nil, err
		}

		resultado := make([]models.Equipamento, 0, len(equipamentos))
		for _, equipamento := range equipamentos {
			if equipamento.Ativo() {
				resultado = append(resultado, equipamento)
			}
		}
		return resultado, nil
	})
	return ativos, err
}

// SeriesAtivas retorna o conjunto de números de série ativos
func (cs *CronogramaService) SeriesAtivas(ctx context.Context) (map[string]bool, error) {
	ativos, err := cs.EquipamentosAtivos(ctx)
	if err != nil {
		return nil, err
	}

	series := make(map[string]bool, len(ativos))
	for _, equipamento := range ativos {
		series[equipamento.NumeroSerie] = true
	}
	return series, nil
}

// Clientes retorna os clientes distintos dos equipamentos ativos, ordenados
func (cs *CronogramaService) Clientes(ctx context.Context) ([]string, error) {
	var clientes []string
	err := cs.cache.Lembrar(ctx, Chave("filtro_clientes"), &clientes, func() (interface{}, error) {
		ativos, err := cs.EquipamentosAtivos(ctx)
		if err != nil {
			return nil, err
		}
		return distintosOrdenados(ativos, func(e models.Equipamento) string { return e.Localizacao }), nil
	})
	return clientes, err
}

// Classes retorna as classes distintas dos equipamentos ativos, ordenadas
func (cs *CronogramaService) Classes(ctx context.Context) ([]string, error) {
	var classes []string
	err := cs.cache.Lembrar(ctx, Chave("filtro_classes"), &classes, func() (interface{}, error) {
		ativos, err := cs.EquipamentosAtivos(ctx)
		if err != nil {
			return nil, err
		}
		return distintosOrdenados(ativos, func(e models.Equipamento) string { return e.Classe }), nil
	})
	return classes, err
}

// Cronograma avalia a regra de periodicidade de cada equipamento ativo para o
// mês/ano alvo. Determinístico para um mesmo snapshot do cadastro.
func (cs *CronogramaService) Cronograma(ctx context.Context, mes, ano int) ([]models.LinhaCronograma, error) {
	var linhas []models.LinhaCronograma
	err := cs.cache.Lembrar(ctx, Chave("cronograma", mes, ano), &linhas, func() (interface{}, error) {
		ativos, err := cs.EquipamentosAtivos(ctx)
		if err != nil {
			return nil, err
		}

		resultado := make([]models.LinhaCronograma, 0, len(ativos))
		for _, equipamento := range ativos {
			regra := ParseRegraPeriodicidade(equipamento.Periodicidade, equipamento.InicioPeriodicidade)
			resultado = append(resultado, models.LinhaCronograma{
				Serie:               equipamento.NumeroSerie,
				Periodicidade:       equipamento.Periodicidade,
				Classe:              equipamento.Classe,
				InicioPeriodicidade: equipamento.InicioPeriodicidade,
				Localizacao:         equipamento.Localizacao,
				Maquina:             equipamento.Maquina,
				Modelo:              equipamento.Modelo,
				Cidade:              equipamento.Cidade,
				Programado:          regra.Devida(mes, ano),
			})
		}
		return resultado, nil
	})
	return linhas, err
}

// distintosOrdenados extrai valores distintos não vazios e ordena
func distintosOrdenados(equipamentos []models.Equipamento, campo func(models.Equipamento) string) []string {
	vistos := make(map[string]bool)
	valores := make([]string, 0)
	for _, equipamento := range equipamentos {
		valor := campo(equipamento)
		if valor == "" || vistos[valor] {
			continue
		}
		vistos[valor] = true
		valores = append(valores, valor)
	}
	sort.Strings(valores)
	return valores
}
