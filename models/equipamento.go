package models

// Status operacional de um equipamento no cadastro
const (
	StatusEquipamentoAtivo = "ATIVO"
)

// Status do equipamento registrados pelo técnico no último atendimento
const (
	StatusOperando       = "Equipamento operando"
	StatusEmViasDeParar  = "Equipamento em vias de parar"
	StatusParado         = "Equipamento parado"
	StatusParadoComRisco = "Equipamento parado com risco de acidente"
)

// Equipamento representa uma linha do cadastro de equipamentos da frota.
// O cadastro é um snapshot somente leitura vindo da planilha.
type Equipamento struct {
	NumeroSerie         string `json:"numero_serie"`
	Status              string `json:"status"`
	Classe              string `json:"classe"`
	Localizacao         string `json:"localizacao"` // cliente onde o equipamento está alocado
	Cidade              string `json:"cidade"`
	Maquina             string `json:"maquina"` // identificação da frota
	Modelo              string `json:"modelo"`
	Periodicidade       string `json:"periodicidade"`
	InicioPeriodicidade int    `json:"inicio_periodicidade"`
}

// Ativo informa se o equipamento está ativo no cadastro
func (e Equipamento) Ativo() bool {
	return e.Status == StatusEquipamentoAtivo
}

// Coordenada representa uma cidade com suas coordenadas geográficas
type Coordenada struct {
	Cidade    string  `json:"cidade"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CidadeMapa agrega equipamentos ativos por cidade para o mapa da home
type CidadeMapa struct {
	Cidade       string  `json:"cidade"`
	Cliente      string  `json:"cliente"`
	Classe       string  `json:"classe"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Equipamentos int     `json:"equipamentos"`
}
