package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// DatabaseIndex descreve um índice do banco de dados
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// PerformanceIndexes índices consultados pelas listagens do dashboard
var PerformanceIndexes = []DatabaseIndex{
	{
		Name:    "idx_relatorios_status",
		Table:   "relatorios",
		Columns: []string{"status"},
	},
	{
		Name:    "idx_relatorios_criado_por",
		Table:   "relatorios",
		Columns: []string{"criado_por_id", "created_at"},
	},
	{
		Name:    "idx_relatorios_periodo",
		Table:   "relatorios",
		Columns: []string{"ano", "mes"},
	},
	{
		Name:    "idx_users_username",
		Table:   "users",
		Columns: []string{"username"},
		Unique:  true,
	},
}

// CreatePerformanceIndexes cria os índices de consulta, seguindo em frente
// quando um deles falha
func CreatePerformanceIndexes(db *gorm.DB) error {
	for _, index := range PerformanceIndexes {
		if err := CreateIndex(db, index); err != nil {
			log.Printf("⚠️ Falha ao criar índice %s: %v", index.Name, err)
			continue
		}
	}
	log.Println("✅ Índices de consulta verificados")
	return nil
}

// CreateIndex cria um índice B-tree se ainda não existir
func CreateIndex(db *gorm.DB, index DatabaseIndex) error {
	unique := ""
	if index.Unique {
		unique = "UNIQUE "
	}
	sql := fmt.Sprintf(
		"CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		unique, index.Name, index.Table, strings.Join(index.Columns, ", "),
	)
	return db.Exec(sql).Error
}

// DropIndex remove um índice
func DropIndex(db *gorm.DB, indexName string) error {
	return db.Exec(fmt.Sprintf("DROP INDEX IF EXISTS %s", indexName)).Error
}
