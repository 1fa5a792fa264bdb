package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	// O cliente da planilha acrescenta /v4/spreadsheets, a base fica sem prefixo
	assert.Equal(t, "https://sheets.googleapis.com", cfg.Planilha.BaseURL)
	assert.Equal(t, 0.7, cfg.Planilha.Tolerancia)
	assert.Equal(t, 3, cfg.Planilha.MaxTentativas)
	assert.Equal(t, 600*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "http://g4.transpotech.com.br/transpotech", cfg.G4.LinkBase)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:      AppConfig{Env: "development"},
			Database: DatabaseConfig{Name: "frotas_db", User: "postgres"},
			Planilha: PlanilhaConfig{Tolerancia: 0.7},
		}
	}

	assert.NoError(t, base().Validate())

	semBanco := base()
	semBanco.Database.Name = ""
	assert.Error(t, semBanco.Validate())

	toleranciaInvalida := base()
	toleranciaInvalida.Planilha.Tolerancia = 1.5
	assert.Error(t, toleranciaInvalida.Validate())

	producaoSemSegredo := base()
	producaoSemSegredo.App.Env = "production"
	assert.Error(t, producaoSemSegredo.Validate())
}

func TestParseNomeMes(t *testing.T) {
	assert.Equal(t, 7, Meses["julho"])
	assert.Equal(t, "julho", NomeMes(7))
	assert.Equal(t, "", NomeMes(13))
}
