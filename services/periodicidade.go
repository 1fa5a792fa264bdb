package services

import (
	"strconv"
	"time"
)

// RegraPeriodicidade é a regra de manutenção preventiva derivada do código de
// periodicidade de um equipamento (ex: "A12", "B06").
type RegraPeriodicidade struct {
	Codigo          string
	FrequenciaMeses int
	MesAncora       int
	Inicio          time.Time
	valida          bool
}

// ParseRegraPeriodicidade interpreta o código de periodicidade.
// A primeira letra define a frequência: A = mensal, B = bimestral, qualquer
// outra = trimestral. O mês âncora vem do final do código: quando o código tem
// exatamente 2 caracteres usa-se o último, caso contrário os dois últimos.
// Essa regra de comprimento reflete a formatação irregular da planilha de
// origem e deve ser mantida como está.
func ParseRegraPeriodicidade(codigo string, anoInicio int) RegraPeriodicidade {
	regra := RegraPeriodicidade{Codigo: codigo}
	if codigo == "" {
		return regra
	}

	switch codigo[0] {
	case 'A':
		regra.FrequenciaMeses = 1
	case 'B':
		regra.FrequenciaMeses = 2
	default:
		regra.FrequenciaMeses = 3
	}

	var ancora string
	if len(codigo) == 2 {
		ancora = codigo[len(codigo)-1:]
	} else if len(codigo) > 2 {
		ancora = codigo[len(codigo)-2:]
	}

	mes, err := strconv.Atoi(ancora)
	if err != nil || mes < 1 || mes > 12 {
		// Código malformado: regra inerte, nunca programada
		return regra
	}

	regra.MesAncora = mes
	regra.Inicio = time.Date(anoInicio, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	regra.valida = true
	return regra
}

// Devida informa se o equipamento está programado para preventiva no mês/ano.
// A regra é inerte antes da data de início. Depois dela, mês âncora par
// programa quando mes % frequência == 0; mês âncora ímpar quando
// (mes+1) % frequência == 0. Convenção fixa do negócio.
func (r RegraPeriodicidade) Devida(mes, ano int) bool {
	if !r.valida {
		return false
	}

	avaliada := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	if !avaliada.After(r.Inicio) {
		return false
	}

	if r.MesAncora%2 == 0 {
		return mes%r.FrequenciaMeses == 0
	}
	return (mes+1)%r.FrequenciaMeses == 0
}
