package services

import (
	"backend_frotas/models"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// RelatorioService exporta as tabelas da programação para arquivo
type RelatorioService struct {
	db          *gorm.DB
	programacao *ProgramacaoService
	historico   *HistoricoService
	indicadores *IndicadoresService
	diretorio   string
	logger      *log.Logger
}

// NewRelatorioService cria uma nova instância de RelatorioService
func NewRelatorioService(db *gorm.DB, programacao *ProgramacaoService, historico *HistoricoService, indicadores *IndicadoresService, logger *log.Logger) *RelatorioService {
	if logger == nil {
		logger = log.New(os.Stdout, "RELATORIO: ", log.LstdFlags)
	}
	return &RelatorioService{
		db:          db,
		programacao: programacao,
		historico:   historico,
		indicadores: indicadores,
		diretorio:   "relatorios",
		logger:      logger,
	}
}

// DadosRelatorio representa os dados tabulares de um relatório
type DadosRelatorio struct {
	Cabecalhos []string                 `json:"cabecalhos"`
	Linhas     []map[string]interface{} `json:"linhas"`
	Resumo     map[string]interface{}   `json:"resumo,omitempty"`
}

// GerarRelatorio gera o arquivo do relatório e atualiza seu ciclo de vida no banco
func (rs *RelatorioService) GerarRelatorio(ctx context.Context, relatorio *models.Relatorio) error {
	agora := time.Now()
	relatorio.Status = models.StatusRelatorioProcessando
	relatorio.IniciadoEm = &agora
	if err := rs.db.Save(relatorio).Error; err != nil {
		return fmt.Errorf("erro ao atualizar status do relatório: %w", err)
	}

	dados, err := rs.obterDados(ctx, relatorio)
	if err != nil {
		rs.registrarErro(relatorio, fmt.Sprintf("erro ao obter dados do relatório: %v", err))
		return err
	}

	caminho, err := rs.gerarArquivo(dados, relatorio)
	if err != nil {
		rs.registrarErro(relatorio, fmt.Sprintf("erro ao gerar arquivo do relatório: %v", err))
		return err
	}

	info, err := os.Stat(caminho)
	if err != nil {
		rs.registrarErro(relatorio, fmt.Sprintf("erro ao ler informações do arquivo: %v", err))
		return err
	}

	concluido := time.Now()
	relatorio.Status = models.StatusRelatorioConcluido
	relatorio.ConcluidoEm = &concluido
	relatorio.CaminhoArquivo = caminho
	relatorio.TamanhoArquivo = info.Size()
	relatorio.TotalRegistros = len(dados.Linhas)
	relatorio.MensagemErro = ""

	rs.logger.Printf("✅ Relatório %d gerado: %s (%d registros)", relatorio.ID, caminho, len(dados.Linhas))
	return rs.db.Save(relatorio).Error
}

// obterDados monta os dados do relatório conforme o tipo
func (rs *RelatorioService) obterDados(ctx context.Context, relatorio *models.Relatorio) (*DadosRelatorio, error) {
	switch relatorio.Tipo {
	case models.TipoRelatorioProgramacao:
		return rs.dadosProgramacao(ctx, relatorio.Mes, relatorio.Ano)
	case models.TipoRelatorioCorretiva:
		return rs.dadosCorretivas(ctx)
	case models.TipoRelatorioTecnicos:
		return rs.dadosTecnicos(ctx, relatorio.Mes, relatorio.Ano)
	default:
		return nil, fmt.Errorf("tipo de relatório não suportado: %s", relatorio.Tipo)
	}
}

// dadosProgramacao monta a tabela de programação preventiva do mês
func (rs *RelatorioService) dadosProgramacao(ctx context.Context, mes, ano int) (*DadosRelatorio, error) {
	registros, err := rs.programacao.Programacao(ctx, mes, ano)
	if err != nil {
		return nil, err
	}

	cabecalhos := []string{"NÚMERO SÉRIE", "FROTA", "MODELO", "CLIENTE", "CLASSE", "CIDADE", "HORÍMETRO ATUAL", "LINK", "OS APOLLO", "SITUAÇÃO", "OS G4", "STATUS G4"}
	linhas := make([]map[string]interface{}, len(registros))

	realizados := 0
	naoRealizados := 0

	for i, r := range registros {
		switch r.Situacao {
		case models.SituacaoRealizado:
			realizados++
		case models.SituacaoNaoRealizado:
			naoRealizados++
		}

		linhas[i] = map[string]interface{}{
			"NÚMERO SÉRIE":    r.NumeroSerie,
			"FROTA":           r.Frota,
			"MODELO":          r.Modelo,
			"CLIENTE":         r.Cliente,
			"CLASSE":          r.Classe,
			"CIDADE":          r.Cidade,
			"HORÍMETRO ATUAL": r.HorimetroAtual,
			"LINK":            r.Link,
			"OS APOLLO":       r.OSApollo,
			"SITUAÇÃO":        string(r.Situacao),
			"OS G4":           juntar(r.OSG4),
			"STATUS G4":       juntar(r.StatusG4),
		}
	}

	resumo := map[string]interface{}{
		"total_equipamentos": len(registros),
		"realizados":         realizados,
		"nao_realizados":     naoRealizados,
		"mes":                mes,
		"ano":                ano,
	}

	return &DadosRelatorio{Cabecalhos: cabecalhos, Linhas: linhas, Resumo: resumo}, nil
}

// dadosCorretivas monta a tabela de corretivas dos últimos 30 dias
func (rs *RelatorioService) dadosCorretivas(ctx context.Context) (*DadosRelatorio, error) {
	atendimentos, err := rs.historico.UltimosAtendimentos(ctx, 30)
	if err != nil {
		return nil, err
	}

	cabecalhos := []string{"NÚMERO SÉRIE", "FROTA", "CLIENTE", "TIPO", "DATA ABERTURA", "STATUS", "TÉCNICO", "OS G4", "LINK G4", "STATUS EQUIPAMENTO", "PENDÊNCIA"}
	linhas := make([]map[string]interface{}, 0, len(atendimentos))

	for _, a := range atendimentos {
		if a.TipoManutencao != models.TipoManutencaoCorretiva {
			continue
		}
		linhas = append(linhas, map[string]interface{}{
			"NÚMERO SÉRIE":       a.NumeroSerie,
			"FROTA":              a.Frota,
			"CLIENTE":            a.RazaoSocial,
			"TIPO":               a.TipoManutencao,
			"DATA ABERTURA":      a.DataAberturaOS.Format("02/01/2006 15:04"),
			"STATUS":             a.StatusAtendimento,
			"TÉCNICO":            a.NomeTecnico,
			"OS G4":              a.CodigoOSG4,
			"LINK G4":            a.Link,
			"STATUS EQUIPAMENTO": a.StatusEquipamento,
			"PENDÊNCIA":          a.Pendencia,
		})
	}

	resumo := map[string]interface{}{
		"total_corretivas": len(linhas),
		"janela_dias":      30,
	}

	return &DadosRelatorio{Cabecalhos: cabecalhos, Linhas: linhas, Resumo: resumo}, nil
}

// dadosTecnicos monta o ranking de preventivas por técnico no mês
func (rs *RelatorioService) dadosTecnicos(ctx context.Context, mes, ano int) (*DadosRelatorio, error) {
	ranking, err := rs.indicadores.RankingTecnicos(ctx, mes, ano)
	if err != nil {
		return nil, err
	}

	cabecalhos := []string{"TÉCNICO", "PREVENTIVAS"}
	linhas := make([]map[string]interface{}, len(ranking))

	total := 0
	for i, r := range ranking {
		total += r.Preventivas
		linhas[i] = map[string]interface{}{
			"TÉCNICO":     r.NomeTecnico,
			"PREVENTIVAS": r.Preventivas,
		}
	}

	resumo := map[string]interface{}{
		"total_preventivas": total,
		"mes":               mes,
		"ano":               ano,
	}

	return &DadosRelatorio{Cabecalhos: cabecalhos, Linhas: linhas, Resumo: resumo}, nil
}

// gerarArquivo gera o arquivo do relatório no formato solicitado
func (rs *RelatorioService) gerarArquivo(dados *DadosRelatorio, relatorio *models.Relatorio) (string, error) {
	if err := os.MkdirAll(rs.diretorio, 0755); err != nil {
		return "", err
	}

	nome := fmt.Sprintf("relatorio_%s_%s", relatorio.Tipo, uuid.New().String())

	switch relatorio.Formato {
	case models.FormatoRelatorioCSV:
		return rs.gerarCSV(dados, filepath.Join(rs.diretorio, nome+".csv"))
	case models.FormatoRelatorioExcel:
		return rs.gerarExcel(dados, filepath.Join(rs.diretorio, nome+".xlsx"))
	case models.FormatoRelatorioPDF:
		return rs.gerarPDF(dados, filepath.Join(rs.diretorio, nome+".pdf"))
	case models.FormatoRelatorioJSON:
		return rs.gerarJSON(dados, filepath.Join(rs.diretorio, nome+".json"))
	default:
		return "", fmt.Errorf("formato não suportado: %s", relatorio.Formato)
	}
}

// gerarCSV gera o relatório em CSV
func (rs *RelatorioService) gerarCSV(dados *DadosRelatorio, caminho string) (string, error) {
	arquivo, err := os.Create(caminho)
	if err != nil {
		return "", err
	}
	defer arquivo.Close()

	escritor := csv.NewWriter(arquivo)
	defer escritor.Flush()

	if err := escritor.Write(dados.Cabecalhos); err != nil {
		return "", err
	}

	for _, linha := range dados.Linhas {
		registro := make([]string, len(dados.Cabecalhos))
		for i, cabecalho := range dados.Cabecalhos {
			if valor, ok := linha[cabecalho]; ok {
				registro[i] = fmt.Sprintf("%v", valor)
			}
		}
		if err := escritor.Write(registro); err != nil {
			return "", err
		}
	}

	return caminho, nil
}

// gerarExcel gera o relatório em Excel
func (rs *RelatorioService) gerarExcel(dados *DadosRelatorio, caminho string) (string, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			rs.logger.Printf("⚠️ Erro ao fechar arquivo Excel: %v", err)
		}
	}()

	aba := "Relatório"
	f.SetSheetName("Sheet1", aba)

	for i, cabecalho := range dados.Cabecalhos {
		celula, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(aba, celula, cabecalho)
	}

	for idxLinha, linha := range dados.Linhas {
		for idxColuna, cabecalho := range dados.Cabecalhos {
			celula, _ := excelize.CoordinatesToCellName(idxColuna+1, idxLinha+2)
			if valor, ok := linha[cabecalho]; ok {
				f.SetCellValue(aba, celula, valor)
			}
		}
	}

	ultimaCelula, _ := excelize.CoordinatesToCellName(len(dados.Cabecalhos), len(dados.Linhas)+1)
	f.AutoFilter(aba, "A1:"+ultimaCelula, []excelize.AutoFilterOptions{})

	if err := f.SaveAs(caminho); err != nil {
		return "", err
	}

	return caminho, nil
}

// gerarPDF gera o relatório em PDF
func (rs *RelatorioService) gerarPDF(dados *DadosRelatorio, caminho string) (string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)

	pdf.Cell(40, 10, "Relatório")
	pdf.Ln(20)

	pdf.SetFont("Arial", "", 7)

	for _, cabecalho := range dados.Cabecalhos {
		pdf.Cell(22, 8, cabecalho)
	}
	pdf.Ln(8)

	// PDF é visão resumida, as demais saídas carregam a tabela completa
	maxLinhas := 60
	for i, linha := range dados.Linhas {
		if i >= maxLinhas {
			pdf.Cell(22, 8, fmt.Sprintf("... e mais %d registros", len(dados.Linhas)-maxLinhas))
			break
		}

		for _, cabecalho := range dados.Cabecalhos {
			valor := ""
			if v, ok := linha[cabecalho]; ok {
				valor = fmt.Sprintf("%.12s", fmt.Sprintf("%v", v))
			}
			pdf.Cell(22, 8, valor)
		}
		pdf.Ln(5)
	}

	return caminho, pdf.OutputFileAndClose(caminho)
}

// gerarJSON gera o relatório em JSON
func (rs *RelatorioService) gerarJSON(dados *DadosRelatorio, caminho string) (string, error) {
	arquivo, err := os.Create(caminho)
	if err != nil {
		return "", err
	}
	defer arquivo.Close()

	codificador := json.NewEncoder(arquivo)
	codificador.SetIndent("", "  ")

	conteudo := map[string]interface{}{
		"cabecalhos": dados.Cabecalhos,
		"dados":      dados.Linhas,
		"resumo":     dados.Resumo,
		"gerado_em":  time.Now(),
	}

	return caminho, codificador.Encode(conteudo)
}

// registrarErro marca o relatório como falho com a mensagem de erro
func (rs *RelatorioService) registrarErro(relatorio *models.Relatorio, mensagem string) {
	agora := time.Now()
	relatorio.Status = models.StatusRelatorioFalhou
	relatorio.MensagemErro = mensagem
	relatorio.ConcluidoEm = &agora
	rs.logger.Printf("❌ Relatório %d falhou: %s", relatorio.ID, mensagem)
	rs.db.Save(relatorio)
}

// juntar concatena valores com "; " para células de planilha
func juntar(valores []string) string {
	resultado := ""
	for i, v := range valores {
		if i > 0 {
			resultado += "; "
		}
		resultado += v
	}
	return resultado
}
