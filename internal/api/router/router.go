package router

import (
	"net/http"
	"time"

	"invfisico/internal/api/auditoria"
	"invfisico/internal/api/auth"
	"invfisico/internal/api/captura"
	"invfisico/internal/api/dashboard"
	"invfisico/internal/api/ubicacion"
	"invfisico/internal/pkg/cache"
	"invfisico/internal/pkg/middleware"
	"invfisico/internal/pkg/token"
)

// Options agrupa os Handlers e as dependências transversais do roteador.
type Options struct {
	Captura   *captura.Handler
	Auditoria *auditoria.Handler
	Ubicacion *ubicacion.Handler
	Dashboard *dashboard.Handler
	Auth      *auth.Handler

	TokenService *token.Service
	CacheClient  cache.Client

	RateLimitMax    int
	RateLimitPeriod time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(opts Options) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	// Em projetos maiores, pode-se usar um mux de terceiros (e.g., gorilla/mux, chi)
	mux := http.NewServeMux()

	// Rotas de escrita exigem um token válido; as de leitura ficam abertas
	// para os painéis da aplicação de captura.
	requireAuth := middleware.NewAuthMiddleware(opts.TokenService)

	// --- 1. Rotas de Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Autenticação (v1) ---
	mux.HandleFunc("/v1/login", opts.Auth.LoginHandler)

	// --- 3. Módulo de Captura (v1) ---
	mux.HandleFunc("/v1/capture/insert", requireAuth(opts.Captura.InsertHandler))
	mux.HandleFunc("/v1/capture/check-serial", opts.Captura.CheckSerialHandler)
	mux.HandleFunc("/v1/capture/check-part-number", opts.Captura.CheckPartNumberHandler)
	mux.HandleFunc("/v1/capture/special", onlyPostAuth(opts.Captura.SpecialHandler, requireAuth))
	mux.HandleFunc("/v1/capture", opts.Captura.ListHandler)

	// --- 4. Módulo de Auditoria (v1) ---
	mux.HandleFunc("/v1/auditoria", opts.Auditoria.ListHandler)
	// As sub-rotas /v1/auditoria/{rackID}/... são despachadas pelo Handler,
	// que extrai o rackID do caminho. Só o POST de auditoria exige token.
	mux.HandleFunc("/v1/auditoria/", onlyPostAuth(opts.Auditoria.RackHandler, requireAuth))

	// --- 5. Catálogo de Ubicações (v1) ---
	mux.HandleFunc("/v1/plantas", opts.Ubicacion.PlantasHandler)
	mux.HandleFunc("/v1/racks", opts.Ubicacion.RacksHandler)
	mux.HandleFunc("/v1/bins", opts.Ubicacion.BinsHandler)
	mux.HandleFunc("/v1/part-numbers", opts.Ubicacion.PartNumbersHandler)

	// --- 6. Painel de Progresso (v1) ---
	mux.HandleFunc("/v1/dashboard/capture-stats", opts.Dashboard.CaptureStatsHandler)
	mux.HandleFunc("/v1/dashboard/ticket-stats", opts.Dashboard.TicketStatsHandler)

	// --- 7. Middlewares Globais ---
	var handler http.Handler = mux
	if opts.CacheClient != nil && opts.RateLimitMax > 0 {
		handler = middleware.RateLimiter(opts.CacheClient, opts.RateLimitMax, opts.RateLimitPeriod)(handler)
	}
	handler = middleware.RequestID(handler)

	return handler
}

// onlyPostAuth protege apenas as requisições POST com o middleware de token;
// as consultas GET das mesmas rotas ficam abertas.
func onlyPostAuth(h http.HandlerFunc, requireAuth func(next http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	protected := requireAuth(h)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			protected(w, r)
			return
		}
		h(w, r)
	}
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
