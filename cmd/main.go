package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"invfisico/config"
	"invfisico/internal/pkg/cache"
	"invfisico/internal/pkg/database"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"invfisico/internal/api/auditoria" // Handlers
	"invfisico/internal/api/auth"
	"invfisico/internal/api/captura"
	"invfisico/internal/api/dashboard"
	"invfisico/internal/api/router" // Roteador central
	"invfisico/internal/api/ubicacion"
	"invfisico/internal/repository/auditoriarepo" // Acesso a Dados
	"invfisico/internal/repository/capturarepo"
	"invfisico/internal/repository/dashboardrepo"
	"invfisico/internal/repository/empleadorepo"
	"invfisico/internal/repository/materialrepo"
	"invfisico/internal/repository/ubicacionrepo"
	"invfisico/internal/service/auditoriaservice" // Lógica de Negócio
	"invfisico/internal/service/capturaservice"
	"invfisico/internal/service/dashboardservice"
	"invfisico/internal/service/empleadoservice"
	"invfisico/internal/service/ubicacionservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço InvFisico...")
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos, mas continuamos,
		// pois as variáveis essenciais podem estar no ambiente do sistema.
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (URLs, Timeouts, etc.)
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close() // Fecha a conexão de DB ao sair
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	empleadoRepo := empleadorepo.NewEmpleadoRepository(db, cfg.DBTimeout, log)
	materialRepo := materialrepo.NewMaterialRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	capturaRepo := capturarepo.NewCapturaRepository(db, cfg.DBTimeout, log)
	auditoriaRepo := auditoriarepo.NewAuditoriaRepository(db, cfg.DBTimeout, log)
	ubicacionRepo := ubicacionrepo.NewUbicacionRepository(db, cfg.DBTimeout, log)
	dashboardRepo := dashboardrepo.NewDashboardRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	capturaSvc := capturaservice.NewService(capturaRepo, materialRepo, empleadoRepo, log)
	auditoriaSvc := auditoriaservice.NewService(auditoriaRepo, cfg.AuditThreshold, log)
	ubicacionSvc := ubicacionservice.NewService(ubicacionRepo, log)
	dashboardSvc := dashboardservice.NewService(dashboardRepo, log)
	empleadoSvc := empleadoservice.NewService(empleadoRepo, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	capturaHandler := captura.NewHandler(capturaSvc, log)
	auditoriaHandler := auditoria.NewHandler(auditoriaSvc, log)
	ubicacionHandler := ubicacion.NewHandler(ubicacionSvc, log)
	dashboardHandler := dashboard.NewHandler(dashboardSvc, log)
	authHandler := auth.NewHandler(empleadoSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	// O roteador recebe os Handlers e aplica os middlewares globais
	r := router.NewRouter(router.Options{
		Captura:         capturaHandler,
		Auditoria:       auditoriaHandler,
		Ubicacion:       ubicacionHandler,
		Dashboard:       dashboardHandler,
		Auth:            authHandler,
		TokenService:    tokenSvc,
		CacheClient:     cacheClient,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r, // O roteador final
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor InvFisico ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou: %v", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	// Timeout para desligamento (usa o contexto)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
