package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contém toda a configuração da aplicação
type Config struct {
	// Configurações gerais da aplicação
	App AppConfig `json:"app"`

	// Banco de dados
	Database DatabaseConfig `json:"database"`

	// Redis
	Redis RedisConfig `json:"redis"`

	// JWT
	JWT JWTConfig `json:"jwt"`

	// Planilha (Google Sheets)
	Planilha PlanilhaConfig `json:"planilha"`

	// Cache
	Cache CacheConfig `json:"cache"`

	// G4 (sistema de ordens de serviço)
	G4 G4Config `json:"g4"`

	// CORS
	CORS CORSConfig `json:"cors"`

	// Telegram
	Telegram TelegramConfig `json:"telegram"`
}

type AppConfig struct {
	Env     string `json:"env"`
	Port    string `json:"port"`
	Host    string `json:"host"`
	Version string `json:"version"`
	Debug   bool   `json:"debug"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            string        `json:"port"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	Name            string        `json:"name"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	Timeout  time.Duration `json:"timeout"`
}

type JWTConfig struct {
	Secret    string        `json:"secret"`
	ExpiresIn time.Duration `json:"expires_in"`
	Issuer    string        `json:"issuer"`
}

// PlanilhaConfig aponta para a planilha que alimenta o dashboard
type PlanilhaConfig struct {
	BaseURL       string        `json:"base_url"`
	SpreadsheetID string        `json:"spreadsheet_id"`
	APIKey        string        `json:"api_key"`
	Tolerancia    float64       `json:"tolerancia"`
	MaxTentativas int           `json:"max_tentativas"`
	PausaRetry    time.Duration `json:"pausa_retry"`
	Timeout       time.Duration `json:"timeout"`
}

type CacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

type G4Config struct {
	LinkBase string `json:"link_base"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// Meses mapeia o nome do mês em português para o seu número
var Meses = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"março":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// NomeMes devolve o nome do mês em português, ou vazio se inválido
func NomeMes(mes int) string {
	for nome, numero := range Meses {
		if numero == mes {
			return nome
		}
	}
	return ""
}

var GlobalConfig *Config

// LoadConfig carrega a configuração das variáveis de ambiente
func LoadConfig() (*Config, error) {
	// Carrega o arquivo .env se existir
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: arquivo .env não encontrado: %v", err)
	}

	config := &Config{
		App: AppConfig{
			Env:     getEnv("APP_ENV", "development"),
			Port:    getEnv("APP_PORT", "8080"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Version: getEnv("API_VERSION", "v1"),
			Debug:   getEnvBool("DEBUG_MODE", false),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "frotas_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Timeout:  getEnvDuration("REDIS_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", ""),
			ExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
			Issuer:    getEnv("JWT_ISSUER", "backend-frotas"),
		},
		Planilha: PlanilhaConfig{
			BaseURL:       getEnv("PLANILHA_BASE_URL", "https://sheets.googleapis.com"),
			SpreadsheetID: getEnv("PLANILHA_SPREADSHEET_ID", ""),
			APIKey:        getEnv("PLANILHA_API_KEY", ""),
			Tolerancia:    getEnvFloat("PLANILHA_TOLERANCIA", 0.7),
			MaxTentativas: getEnvInt("PLANILHA_MAX_TENTATIVAS", 3),
			PausaRetry:    getEnvDuration("PLANILHA_PAUSA_RETRY", 1*time.Second),
			Timeout:       getEnvDuration("PLANILHA_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("CACHE_TTL", 600*time.Second),
		},
		G4: G4Config{
			LinkBase: getEnv("G4_LINK_BASE", "http://g4.transpotech.com.br/transpotech"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvInt("CORS_MAX_AGE", 86400),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	GlobalConfig = config
	return config, nil
}

// Validate verifica a consistência da configuração
func (c *Config) Validate() error {
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET é obrigatório em produção")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET deve ter pelo menos 32 caracteres")
		}
		if c.Planilha.SpreadsheetID == "" {
			return fmt.Errorf("PLANILHA_SPREADSHEET_ID é obrigatório em produção")
		}
		if c.Planilha.APIKey == "" {
			return fmt.Errorf("PLANILHA_API_KEY é obrigatório em produção")
		}
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME não pode ser vazio")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER não pode ser vazio")
	}
	if c.Planilha.Tolerancia < 0 || c.Planilha.Tolerancia > 1 {
		return fmt.Errorf("PLANILHA_TOLERANCIA deve estar entre 0 e 1")
	}

	return nil
}

// GetConfig retorna a configuração atual
func GetConfig() *Config {
	if GlobalConfig == nil {
		log.Fatal("Configuração não carregada. Chame LoadConfig() primeiro.")
	}
	return GlobalConfig
}

// Funções auxiliares para ler variáveis de ambiente

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Aviso: valor inteiro inválido para %s: %s, usando padrão: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Printf("Aviso: valor decimal inválido para %s: %s, usando padrão: %v", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Printf("Aviso: valor booleano inválido para %s: %s, usando padrão: %t", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Aviso: valor de duração inválido para %s: %s, usando padrão: %v", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment informa se a aplicação está em modo de desenvolvimento
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction informa se a aplicação está em produção
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// GetDatabaseDSN retorna a string de conexão com o banco
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// GetRedisAddr retorna o endereço do Redis
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// LogConfig registra a configuração no log (sem dados sensíveis)
func (c *Config) LogConfig() {
	log.Printf("=== Configuração da Aplicação ===")
	log.Printf("Ambiente: %s", c.App.Env)
	log.Printf("Porta: %s", c.App.Port)
	log.Printf("Banco: %s:%s/%s", c.Database.Host, c.Database.Port, c.Database.Name)
	log.Printf("Redis: %s:%s", c.Redis.Host, c.Redis.Port)
	log.Printf("Planilha: %s", c.Planilha.SpreadsheetID)
	log.Printf("TTL do cache: %v", c.Cache.TTL)
	log.Printf("Debug: %t", c.App.Debug)
	log.Printf("=================================")
}
