package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrdemPreventiva representa uma ordem de serviço programada para o mês.
// A planilha de OS traz a data sempre no primeiro dia do mês alvo.
type OrdemPreventiva struct {
	Localizacao string    `json:"localizacao"`
	Data        time.Time `json:"data"`
	NumeroSerie string    `json:"numero_serie"`
	NumeroOS    string    `json:"numero_os"`
}

// PreventivaMensal representa uma linha da tabela histórica de conformidade.
// Para meses fechados essa tabela é a fonte autoritativa dos percentuais.
type PreventivaMensal struct {
	Data                    time.Time       `json:"data"`
	PorcentagemRealizada    decimal.Decimal `json:"porcentagem_realizada"`
	PorcentagemConformidade decimal.Decimal `json:"porcentagem_conformidade"`
	NumeroRealizado         int             `json:"numero_realizado"`
}

// LinhaCronograma é o resultado da projeção do cronograma para um equipamento
// em um mês alvo. Recalculada a cada consulta, nunca persistida.
type LinhaCronograma struct {
	Serie               string `json:"serie"`
	Periodicidade       string `json:"periodicidade"`
	Classe              string `json:"classe"`
	InicioPeriodicidade int    `json:"inicio_periodicidade"`
	Localizacao         string `json:"localizacao"`
	Maquina             string `json:"maquina"`
	Modelo              string `json:"modelo"`
	Cidade              string `json:"cidade"`
	Programado          bool   `json:"programado"`
}
