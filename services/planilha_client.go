package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backend_frotas/models"
)

// Intervalos das tabelas na planilha de origem
const (
	RangeEquipamentos = "Lista de Equipamentos!A:AY"
	RangeHistorico    = "HISTORICO_DATA!A:Y"
	RangeOrdens       = "OS Preventivas!C5:H"
	RangePreventivas  = "PREVENTIVAS_MENSAL_PLT!A:E"
	RangeCoordenadas  = "Coordenadas!A:C"
	RangeLog          = "LOG!A:A"
)

// Planilha é o contrato da camada de dados tabulares. A implementação real
// busca as tabelas na planilha; os testes usam o mock baseado em fixtures.
type Planilha interface {
	Equipamentos(ctx context.Context) ([]models.Equipamento, error)
	Historico(ctx context.Context) ([]models.AtendimentoHistorico, error)
	OrdensPreventivas(ctx context.Context) ([]models.OrdemPreventiva, error)
	PreventivasMensais(ctx context.Context) ([]models.PreventivaMensal, error)
	Coordenadas(ctx context.Context) ([]models.Coordenada, error)
	UltimaAtualizacao(ctx context.Context) (string, error)
}

// PlanilhaClient busca as tabelas pela API de valores do Google Sheets
type PlanilhaClient struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	Tolerancia    float64
	MaxTentativas int
	PausaRetry    time.Duration
	HTTPClient    *http.Client
	Logger        *log.Logger
}

// NewPlanilhaClient cria um novo cliente da planilha
func NewPlanilhaClient(baseURL, spreadsheetID, apiKey string, logger *log.Logger) *PlanilhaClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &PlanilhaClient{
		BaseURL:       baseURL,
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		Tolerancia:    0.7,
		MaxTentativas: 3,
		PausaRetry:    1 * time.Second,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger: logger,
	}
}

// valoresResponse é o corpo retornado pela API de valores
type valoresResponse struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CarregarTabela busca um intervalo da planilha com retry limitado.
// Cada tentativa é independente, com pausa fixa entre elas. Esgotadas as
// tentativas o erro da última é devolvido ao chamador.
func (pc *PlanilhaClient) CarregarTabela(ctx context.Context, rangeData string) (*Tabela, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		pc.BaseURL, pc.SpreadsheetID, url.PathEscape(rangeData), url.QueryEscape(pc.APIKey))

	var ultimoErr error
	for tentativa := 0; tentativa < pc.MaxTentativas; tentativa++ {
		if tentativa > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(pc.PausaRetry):
			}
		}

		tabela, err := pc.buscarValores(ctx, endpoint)
		if err != nil {
			pc.Logger.Printf("⚠️  Tentativa %d de carregar '%s' falhou: %v", tentativa+1, rangeData, err)
			ultimoErr = err
			continue
		}
		return tabela, nil
	}

	pc.Logger.Printf("❌ Máximo de tentativas atingido para '%s'", rangeData)
	return nil, fmt.Errorf("falha ao carregar '%s' após %d tentativas: %w", rangeData, pc.MaxTentativas, ultimoErr)
}

// buscarValores executa uma única tentativa de busca
func (pc *PlanilhaClient) buscarValores(ctx context.Context, endpoint string) (*Tabela, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := pc.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planilha respondeu status %d", resp.StatusCode)
	}

	var valores valoresResponse
	if err := json.Unmarshal(corpo, &valores); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}
	if valores.Error != nil {
		return nil, fmt.Errorf("erro da API da planilha: %s", valores.Error.Message)
	}

	return NovaTabela(valores.Values, pc.Tolerancia), nil
}

// Equipamentos retorna o cadastro completo de equipamentos
func (pc *PlanilhaClient) Equipamentos(ctx context.Context) ([]models.Equipamento, error) {
	tabela, err := pc.CarregarTabela(ctx, RangeEquipamentos)
	if err != nil {
		return nil, err
	}
	return tabela.Equipamentos(), nil
}

// Historico retorna o histórico completo de atendimentos
func (pc *PlanilhaClient) Historico(ctx context.Context) ([]models.AtendimentoHistorico, error) {
	tabela, err := pc.CarregarTabela(ctx, RangeHistorico)
	if err != nil {
		return nil, err
	}
	return tabela.Historico(), nil
}

// OrdensPreventivas retorna as ordens de serviço programadas
func (pc *PlanilhaClient) OrdensPreventivas(ctx context.Context) ([]models.OrdemPreventiva, error) {
	tabela, err := pc.CarregarTabela(ctx, RangeOrdens)
	if err != nil {
		return nil, err
	}
	return tabela.OrdensPreventivas(), nil
}

// PreventivasMensais retorna a tabela histórica de conformidade mensal
func (pc *PlanilhaClient) PreventivasMensais(ctx context.Context) ([]models.PreventivaMensal, error) {
	tabela, err := pc.CarregarTabela(ctx, RangePreventivas)
	if err != nil {
		return nil, err
	}
	return tabela.PreventivasMensais(), nil
}

// Coordenadas retorna as coordenadas das cidades atendidas
func (pc *PlanilhaClient) Coordenadas(ctx context.Context) ([]models.Coordenada, error) {
	tabela, err := pc.CarregarTabela(ctx, RangeCoordenadas)
	if err != nil {
		return nil, err
	}
	return tabela.Coordenadas(), nil
}

// UltimaAtualizacao retorna a última linha da aba de LOG da planilha
func (pc *PlanilhaClient) UltimaAtualizacao(ctx context.Context) (string, error) {
	tabela, err := pc.CarregarTabela(ctx, RangeLog)
	if err != nil {
		return "", err
	}
	if len(tabela.Linhas) == 0 {
		return "", nil
	}
	return tabela.Linhas[len(tabela.Linhas)-1]["LOG"], nil
}

// Tabela é uma tabela tipada por nome de coluna, montada a partir dos valores
// brutos da planilha
type Tabela struct {
	Colunas []string
	Linhas  []map[string]string
}

// NovaTabela monta a tabela a partir dos valores brutos. A primeira linha é o
// cabeçalho; linhas curtas são completadas com vazio e linhas cuja quantidade
// de células vazias excede tolerancia*colunas são descartadas (linhas de
// rascunho da planilha).
func NovaTabela(valores [][]interface{}, tolerancia float64) *Tabela {
	if tolerancia < 0.7 {
		tolerancia = 0.7
	}

	tabela := &Tabela{}
	if len(valores) == 0 {
		return tabela
	}

	for _, celula := range valores[0] {
		tabela.Colunas = append(tabela.Colunas, strings.TrimSpace(fmt.Sprintf("%v", celula)))
	}

	total := len(tabela.Colunas)
	for _, bruta := range valores[1:] {
		linha := make(map[string]string, total)
		vazias := 0
		for j, coluna := range tabela.Colunas {
			valor := ""
			if j < len(bruta) && bruta[j] != nil {
				valor = fmt.Sprintf("%v", bruta[j])
			}
			if valor == "" {
				vazias++
			}
			linha[coluna] = valor
		}
		if float64(vazias) > tolerancia*float64(total) {
			continue
		}
		tabela.Linhas = append(tabela.Linhas, linha)
	}

	return tabela
}

// Equipamentos converte a tabela do cadastro em registros tipados
func (t *Tabela) Equipamentos() []models.Equipamento {
	equipamentos := make([]models.Equipamento, 0, len(t.Linhas))
	for _, linha := range t.Linhas {
		inicio, _ := strconv.Atoi(strings.TrimSpace(linha["Inicio periodicidade"]))
		equipamentos = append(equipamentos, models.Equipamento{
			NumeroSerie:         strings.TrimSpace(linha["Nº de Série"]),
			Status:              strings.TrimSpace(linha["Status"]),
			Classe:              strings.TrimSpace(linha["Classe"]),
			Localizacao:         strings.TrimSpace(linha["LOCALIZAÇÃO"]),
			Cidade:              strings.TrimSpace(linha["Cidade"]),
			Maquina:             strings.TrimSpace(linha["Máquina"]),
			Modelo:              strings.TrimSpace(linha["Modelo"]),
			Periodicidade:       strings.TrimSpace(linha["Periodicidade"]),
			InicioPeriodicidade: inicio,
		})
	}
	return equipamentos
}

// Historico converte a tabela do histórico em registros tipados
func (t *Tabela) Historico() []models.AtendimentoHistorico {
	atendimentos := make([]models.AtendimentoHistorico, 0, len(t.Linhas))
	for _, linha := range t.Linhas {
		atendimentos = append(atendimentos, models.AtendimentoHistorico{
			NumeroSerie:       strings.TrimSpace(linha["Nº de Série"]),
			Frota:             strings.TrimSpace(linha["FROTA"]),
			RazaoSocial:       strings.TrimSpace(linha["RAZÃO SOCIAL"]),
			TipoManutencao:    strings.TrimSpace(linha["TIPO DE MANUTENÇÃO"]),
			DataTrabalho:      ParseDataBR(linha["DATA TRABALHO"]),
			DataAberturaOS:    ParseDataBR(linha["DATA ABERTURA OS"]),
			StatusAtendimento: strings.TrimSpace(linha["STATUS ATENDIMENTO"]),
			NomeTecnico:       strings.TrimSpace(linha["NOME TÉCNICO"]),
			CodigoOSApollo:    strings.TrimSpace(linha["CÓDIGO OS APOLLO"]),
			CodigoOSG4:        strings.TrimSpace(linha["CÓDIGO OS G4"]),
			StatusEquipamento: strings.TrimSpace(linha["STATUS DO EQUIPAMENTO"]),
			Pendencia:         strings.TrimSpace(linha["PENDÊNCIA"]),
			ComentarioTecnico: strings.TrimSpace(linha["COMENTÁRIO DO TÉCNICO"]),
			Horimetro:         strings.TrimSpace(linha["HORÍMETRO"]),
			DuracaoIda:        ParseDuracao(linha["DURAÇÃO IDA"]),
			DuracaoTrabalho:   ParseDuracao(linha["DURAÇÃO TRABALHO"]),
			DuracaoVolta:      ParseDuracao(linha["DURAÇÃO VOLTA"]),
		})
	}
	return atendimentos
}

// OrdensPreventivas converte a tabela de ordens de serviço programadas
func (t *Tabela) OrdensPreventivas() []models.OrdemPreventiva {
	ordens := make([]models.OrdemPreventiva, 0, len(t.Linhas))
	for _, linha := range t.Linhas {
		ordens = append(ordens, models.OrdemPreventiva{
			Localizacao: strings.TrimSpace(linha["Localização"]),
			Data:        ParseDataBR(linha["Data"]),
			NumeroSerie: strings.TrimSpace(linha["Série"]),
			NumeroOS:    strings.TrimSpace(linha["Nº OS"]),
		})
	}
	return ordens
}

// PreventivasMensais converte a tabela histórica de conformidade
func (t *Tabela) PreventivasMensais() []models.PreventivaMensal {
	preventivas := make([]models.PreventivaMensal, 0, len(t.Linhas))
	for _, linha := range t.Linhas {
		numero, _ := strconv.Atoi(strings.TrimSpace(linha["Numero Realizado"]))
		preventivas = append(preventivas, models.PreventivaMensal{
			Data:                    ParseDataBR(linha["Data"]),
			PorcentagemRealizada:    ParsePorcentagem(linha["Porcentagem Realizada"]),
			PorcentagemConformidade: ParsePorcentagem(linha["Porcentagem em Conformidade"]),
			NumeroRealizado:         numero,
		})
	}
	return preventivas
}

// Coordenadas converte a tabela de coordenadas das cidades
func (t *Tabela) Coordenadas() []models.Coordenada {
	coordenadas := make([]models.Coordenada, 0, len(t.Linhas))
	for _, linha := range t.Linhas {
		coordenadas = append(coordenadas, models.Coordenada{
			Cidade:    strings.ToLower(strings.TrimSpace(linha["Cidade"])),
			Latitude:  ParseDecimalBR(linha["Latitude"]),
			Longitude: ParseDecimalBR(linha["Longitude"]),
		})
	}
	return coordenadas
}

// Formatos de data usados na planilha (dia primeiro)
var formatosDataBR = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
}

// ParseDataBR interpreta uma data no formato brasileiro. Valores
// inválidos viram data zero, nunca erro.
func ParseDataBR(valor string) time.Time {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return time.Time{}
	}
	for _, formato := range formatosDataBR {
		if data, err := time.Parse(formato, valor); err == nil {
			return data
		}
	}
	return time.Time{}
}

// ParseDuracao interpreta uma duração "HH:MM:SS" da planilha
func ParseDuracao(valor string) time.Duration {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		return 0
	}

	partes := strings.Split(valor, ":")
	if len(partes) != 3 {
		return 0
	}

	horas, err1 := strconv.Atoi(partes[0])
	minutos, err2 := strconv.Atoi(partes[1])
	segundos, err3 := strconv.Atoi(partes[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}

	return time.Duration(horas)*time.Hour +
		time.Duration(minutos)*time.Minute +
		time.Duration(segundos)*time.Second
}

// ParsePorcentagem interpreta percentuais no formato "93,5%"
func ParsePorcentagem(valor string) decimal.Decimal {
	valor = strings.TrimSpace(valor)
	valor = strings.ReplaceAll(valor, "%", "")
	valor = strings.ReplaceAll(valor, ",", ".")
	numero, err := decimal.NewFromString(valor)
	if err != nil {
		return decimal.Zero
	}
	return numero
}

// ParseDecimalBR interpreta um número com vírgula decimal
func ParseDecimalBR(valor string) float64 {
	valor = strings.TrimSpace(valor)
	valor = strings.ReplaceAll(valor, ",", ".")
	numero, err := strconv.ParseFloat(valor, 64)
	if err != nil {
		return 0
	}
	return numero
}
