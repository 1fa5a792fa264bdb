package services

import (
	"backend_frotas/models"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SchedulerService agenda a renovação periódica do cache e o relatório
// mensal de programação
type SchedulerService struct {
	db          *gorm.DB
	cache       *CacheService
	programacao *ProgramacaoService
	relatorio   *RelatorioService
	notificador NotificadorOperador
	cron        *cron.Cron
	logger      *log.Logger

	// Expressões cron configuráveis pelo ambiente
	ExprAtualizacao string
	ExprRelatorio   string
}

// NewSchedulerService cria um novo agendador com as expressões padrão
func NewSchedulerService(db *gorm.DB, cache *CacheService, programacao *ProgramacaoService, relatorio *RelatorioService, notificador NotificadorOperador, logger *log.Logger) *SchedulerService {
	if logger == nil {
		logger = log.New(os.Stdout, "SCHEDULER: ", log.LstdFlags)
	}
	return &SchedulerService{
		db:          db,
		cache:       cache,
		programacao: programacao,
		relatorio:   relatorio,
		notificador: notificador,
		cron:        cron.New(),
		logger:      logger,

		// A cada 10 minutos o cache expira, renovar logo em seguida
		ExprAtualizacao: "*/10 * * * *",
		// Dia 1 de cada mês, relatório do mês anterior
		ExprRelatorio: "0 6 1 * *",
	}
}

// Start registra as tarefas e inicia o agendador
func (ss *SchedulerService) Start() error {
	if _, err := ss.cron.AddFunc(ss.ExprAtualizacao, ss.atualizarCache); err != nil {
		return fmt.Errorf("erro ao agendar atualização de cache: %w", err)
	}
	if _, err := ss.cron.AddFunc(ss.ExprRelatorio, ss.gerarRelatorioMensal); err != nil {
		return fmt.Errorf("erro ao agendar relatório mensal: %w", err)
	}

	ss.cron.Start()
	ss.logger.Println("✅ Agendador iniciado")
	return nil
}

// Stop para o agendador
func (ss *SchedulerService) Stop() {
	ss.cron.Stop()
	ss.logger.Println("Agendador parado")
}

// atualizarCache descarta o cache e pré-aquece a programação do mês corrente
func (ss *SchedulerService) atualizarCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ss.cache.Limpar(ctx)

	agora := time.Now()
	if _, err := ss.programacao.Programacao(ctx, int(agora.Month()), agora.Year()); err != nil {
		ss.logger.Printf("⚠️ Erro ao pré-aquecer programação: %v", err)
		return
	}
	ss.logger.Printf("🔄 Cache renovado para %02d/%d", int(agora.Month()), agora.Year())
}

// gerarRelatorioMensal gera o relatório de programação do mês anterior
func (ss *SchedulerService) gerarRelatorioMensal() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	anterior := time.Now().AddDate(0, -1, 0)
	mes := int(anterior.Month())
	ano := anterior.Year()

	relatorio := models.Relatorio{
		Nome:    fmt.Sprintf("Programação %02d/%d (automático)", mes, ano),
		Tipo:    models.TipoRelatorioProgramacao,
		Formato: models.FormatoRelatorioExcel,
		Status:  models.StatusRelatorioPendente,
		Mes:     mes,
		Ano:     ano,
	}

	if err := ss.db.Create(&relatorio).Error; err != nil {
		ss.logger.Printf("❌ Erro ao criar relatório mensal: %v", err)
		return
	}

	if err := ss.relatorio.GerarRelatorio(ctx, &relatorio); err != nil {
		ss.logger.Printf("❌ Erro ao gerar relatório mensal: %v", err)
		if ss.notificador != nil {
			ss.notificador.NotificarOperador(fmt.Sprintf("Falha no relatório mensal %02d/%d: %v", mes, ano, err))
		}
		return
	}

	ss.logger.Printf("✅ Relatório mensal %02d/%d gerado: %s", mes, ano, relatorio.CaminhoArquivo)
}
