package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"backend_frotas/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists cria o banco de dados caso ele não exista
func CreateDatabaseIfNotExists() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "frotas_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Conecta ao PostgreSQL sem indicar o banco alvo (usa o postgres padrão)
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		host, port, user, password, sslmode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("não foi possível conectar ao PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("não foi possível verificar a conexão com o PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	err = db.QueryRow(query, dbname).Scan(&exists)
	if err != nil {
		return fmt.Errorf("erro ao verificar a existência do banco: %w", err)
	}

	if exists {
		log.Printf("✅ Banco de dados '%s' já existe", dbname)
		return nil
	}

	createQuery := fmt.Sprintf("CREATE DATABASE %s;", dbname)
	_, err = db.Exec(createQuery)
	if err != nil {
		return fmt.Errorf("não foi possível criar o banco '%s': %w", dbname, err)
	}

	log.Printf("✅ Banco de dados '%s' criado com sucesso", dbname)
	return nil
}

// ConnectDatabase inicializa a conexão com o PostgreSQL
func ConnectDatabase() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "frotas_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return fmt.Errorf("não foi possível conectar ao banco de dados: %w", err)
	}

	log.Println("✅ Conectado ao PostgreSQL com sucesso")

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("erro na automigração: %w", err)
	}

	if err := CreatePerformanceIndexes(DB); err != nil {
		return fmt.Errorf("erro ao criar índices: %w", err)
	}

	return nil
}

// getEnv obtém a variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDB retorna a instância do banco de dados
func GetDB() *gorm.DB {
	return DB
}

// autoMigrate executa a automigração de todos os modelos
func autoMigrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Relatorio{},
		// Adicione novos modelos aqui
	)

	if err != nil {
		return err
	}

	log.Println("✅ Automigração dos modelos executada com sucesso")
	return nil
}
