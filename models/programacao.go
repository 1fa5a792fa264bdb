package models

// Situacao é o veredito final de um equipamento na programação do mês
type Situacao string

const (
	SituacaoRealizado    Situacao = "Realizado"
	SituacaoNaoRealizado Situacao = "Não Realizado"
	SituacaoNaoFazer     Situacao = "Não Fazer"
)

// RegistroProgramacao é uma linha da tabela reconciliada servida ao dashboard.
// Invariante: Situacao == SituacaoNaoFazer sempre que o equipamento não está
// programado no mês, independente do que exista no histórico.
type RegistroProgramacao struct {
	NumeroSerie    string   `json:"numero_serie"`
	Frota          string   `json:"frota"`
	Modelo         string   `json:"modelo"`
	Cliente        string   `json:"cliente"`
	Classe         string   `json:"classe"`
	Cidade         string   `json:"cidade"`
	HorimetroAtual string   `json:"horimetro_atual"`
	Link           string   `json:"link"`
	OSApollo       string   `json:"os_apollo"`
	Situacao       Situacao `json:"situacao"`
	OSG4           []string `json:"os_g4"`
	StatusG4       []string `json:"status_g4"`
}

// IndicadorCliente agrega a programação de um cliente no mês
type IndicadorCliente struct {
	Cliente      string  `json:"cliente"`
	Total        int     `json:"total"`
	Realizado    int     `json:"realizado"`
	NaoRealizado int     `json:"nao_realizado"`
	Proporcao    float64 `json:"proporcao"`
}

// RankingTecnico conta preventivas concluídas por técnico no mês
type RankingTecnico struct {
	NomeTecnico string `json:"nome_tecnico"`
	Preventivas int    `json:"preventivas"`
}

// RankingCliente conta corretivas por cliente na janela consultada
type RankingCliente struct {
	Cliente    string `json:"cliente"`
	Corretivas int    `json:"corretivas"`
}

// ContagemStatus agrega equipamentos por status operacional
type ContagemStatus struct {
	Operando       int `json:"operando"`
	EmViasDeParar  int `json:"em_vias_de_parar"`
	Parado         int `json:"parado"`
	ParadoComRisco int `json:"parado_com_risco"`
}

// DisponibilidadeCliente resume operando x parado por cliente
type DisponibilidadeCliente struct {
	Cliente  string `json:"cliente"`
	Operando int    `json:"operando"`
	Parado   int    `json:"parado"`
}
