package models

import (
	"time"

	"gorm.io/gorm"
)

// TipoRelatorio representa o tipo de relatório exportado
type TipoRelatorio string

const (
	TipoRelatorioProgramacao TipoRelatorio = "programacao"
	TipoRelatorioCorretiva   TipoRelatorio = "corretiva"
	TipoRelatorioTecnicos    TipoRelatorio = "tecnicos"
)

// FormatoRelatorio representa o formato de exportação
type FormatoRelatorio string

const (
	FormatoRelatorioCSV   FormatoRelatorio = "csv"
	FormatoRelatorioExcel FormatoRelatorio = "excel"
	FormatoRelatorioPDF   FormatoRelatorio = "pdf"
	FormatoRelatorioJSON  FormatoRelatorio = "json"
)

// StatusRelatorio representa o estado da geração do relatório
type StatusRelatorio string

const (
	StatusRelatorioPendente    StatusRelatorio = "pendente"
	StatusRelatorioProcessando StatusRelatorio = "processando"
	StatusRelatorioConcluido   StatusRelatorio = "concluido"
	StatusRelatorioFalhou      StatusRelatorio = "falhou"
)

// Relatorio registra uma execução de exportação da programação mensal
type Relatorio struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Nome    string           `json:"nome" gorm:"not null;type:varchar(200)"`
	Tipo    TipoRelatorio    `json:"tipo" gorm:"not null;type:varchar(50)"`
	Formato FormatoRelatorio `json:"formato" gorm:"not null;type:varchar(10)"`
	Status  StatusRelatorio  `json:"status" gorm:"default:'pendente';type:varchar(20)"`

	// Período consultado
	Mes int `json:"mes"`
	Ano int `json:"ano"`

	// Resultado da geração
	CaminhoArquivo string     `json:"caminho_arquivo" gorm:"type:varchar(500)"`
	TamanhoArquivo int64      `json:"tamanho_arquivo"`
	TotalRegistros int        `json:"total_registros"`
	MensagemErro   string     `json:"mensagem_erro" gorm:"type:text"`
	IniciadoEm     *time.Time `json:"iniciado_em"`
	ConcluidoEm    *time.Time `json:"concluido_em"`

	CriadoPorID uint `json:"criado_por_id" gorm:"index"`
}

// TableName define o nome da tabela para o modelo Relatorio
func (Relatorio) TableName() string {
	return "relatorios"
}
