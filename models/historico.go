package models

import "time"

// Tipos de manutenção presentes no histórico
const (
	TipoManutencaoCorretiva  = "CORRETIVA"
	TipoManutencaoPreventiva = "INSPEÇÃO PREVENTIVA"
)

// Status de atendimento considerados concluídos
const (
	StatusAtendimentoValidado  = "Validado"
	StatusAtendimentoConcluido = "Concluido"
	StatusAtendimentoCancelado = "Cancelado"
)

// AtendimentoHistorico representa uma linha do histórico de atendimentos.
// O histórico é um log imutável: o sistema nunca escreve nele.
type AtendimentoHistorico struct {
	NumeroSerie       string        `json:"numero_serie"`
	Frota             string        `json:"frota"`
	RazaoSocial       string        `json:"razao_social"`
	TipoManutencao    string        `json:"tipo_manutencao"`
	DataTrabalho      time.Time     `json:"data_trabalho"`
	DataAberturaOS    time.Time     `json:"data_abertura_os"`
	StatusAtendimento string        `json:"status_atendimento"`
	NomeTecnico       string        `json:"nome_tecnico"`
	CodigoOSApollo    string        `json:"codigo_os_apollo"`
	CodigoOSG4        string        `json:"codigo_os_g4"`
	Link              string        `json:"link"`
	StatusEquipamento string        `json:"status_equipamento"`
	Pendencia         string        `json:"pendencia"`
	ComentarioTecnico string        `json:"comentario_tecnico"`
	Horimetro         string        `json:"horimetro"`
	DuracaoIda        time.Duration `json:"duracao_ida"`
	DuracaoTrabalho   time.Duration `json:"duracao_trabalho"`
	DuracaoVolta      time.Duration `json:"duracao_volta"`
}

// Concluido informa se o atendimento chegou a um status final
func (a AtendimentoHistorico) Concluido() bool {
	switch a.StatusAtendimento {
	case StatusAtendimentoValidado, StatusAtendimentoConcluido, StatusAtendimentoCancelado:
		return true
	}
	return false
}
