package main

import (
	"log"
	"time"

	"backend_frotas/api"
	"backend_frotas/config"
	"backend_frotas/database"
	"backend_frotas/middleware"
	"backend_frotas/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// initDB inicializa a conexão com o banco de dados
func initDB() {
	log.Println("🔧 Inicializando banco de dados...")

	if err := database.CreateDatabaseIfNotExists(); err != nil {
		log.Fatal("❌ Erro ao criar banco de dados:", err)
	}

	if err := database.ConnectDatabase(); err != nil {
		log.Fatal("❌ Erro ao conectar ao banco de dados:", err)
	}

	log.Println("✅ Banco de dados inicializado com sucesso")
}

func main() {
	// Carrega a configuração (inclui o .env quando presente)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("❌ Erro ao carregar configuração:", err)
	}
	cfg.LogConfig()

	initDB()

	// Redis é opcional, sem ele o cache fica só em memória
	if err := database.InitRedis(); err != nil {
		log.Printf("⚠️ Redis indisponível, cache apenas em memória: %v", err)
	}

	// Cliente da planilha que alimenta o dashboard
	planilha := services.NewPlanilhaClient(cfg.Planilha.BaseURL, cfg.Planilha.SpreadsheetID, cfg.Planilha.APIKey, nil)
	planilha.Tolerancia = cfg.Planilha.Tolerancia
	planilha.MaxTentativas = cfg.Planilha.MaxTentativas
	planilha.PausaRetry = cfg.Planilha.PausaRetry

	// Serviços do domínio
	cache := services.NewCacheService(database.GetRedis(), cfg.Cache.TTL, nil)
	cronograma := services.NewCronogramaService(planilha, cache, nil)
	historico := services.NewHistoricoService(planilha, cronograma, cache, cfg.G4.LinkBase, nil)
	programacao := services.NewProgramacaoService(planilha, cronograma, historico, cache, cfg.G4.LinkBase, nil)
	indicadores := services.NewIndicadoresService(planilha, cronograma, historico, programacao, cache, nil)
	relatorio := services.NewRelatorioService(database.GetDB(), programacao, historico, indicadores, nil)

	telegram, err := services.NewTelegramClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, nil)
	if err != nil {
		log.Printf("⚠️ Erro ao iniciar cliente Telegram: %v", err)
		telegram, _ = services.NewTelegramClient("", "", nil)
	}

	// Agendador: renovação do cache e relatório mensal
	scheduler := services.NewSchedulerService(database.GetDB(), cache, programacao, relatorio, telegram, nil)
	if err := scheduler.Start(); err != nil {
		log.Printf("⚠️ Erro ao iniciar agendador: %v", err)
	}
	defer scheduler.Stop()

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	// Handlers
	tratador := api.NewTratadorErros(cache, telegram, nil)
	authAPI := api.NewAuthAPI(database.GetDB(), cfg)
	dashboardAPI := api.NewDashboardAPI(cronograma, historico, indicadores, cache, tratador)
	preventivaAPI := api.NewPreventivaAPI(programacao, indicadores, tratador)
	corretivaAPI := api.NewCorretivaAPI(historico, indicadores, tratador)
	relatoriosAPI := api.NewRelatoriosAPI(database.GetDB(), relatorio, tratador)

	// Rotas públicas
	publico := r.Group("/api")
	publico.Use(middleware.LoginRateLimit())
	authAPI.RegisterRoutes(publico)

	// Rotas autenticadas
	auth := middleware.NewAuthMiddleware(cfg)
	protegido := r.Group("/api")
	protegido.Use(auth.RequireAuth(), middleware.APIRateLimit())
	authAPI.RegisterProtectedRoutes(protegido)
	dashboardAPI.RegisterRoutes(protegido)
	preventivaAPI.RegisterRoutes(protegido)
	corretivaAPI.RegisterRoutes(protegido)
	relatoriosAPI.RegisterRoutes(protegido)

	log.Printf("🚀 Servidor iniciado na porta %s", cfg.App.Port)
	r.Run(cfg.App.Host + ":" + cfg.App.Port)
}
