package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// DashboardService define o contrato que o Handler espera da camada de Serviço.
type DashboardService interface {
	CaptureStats(ctx context.Context) (domain.CaptureStats, error)
	TicketStats(ctx context.Context) (domain.TicketStats, error)
}

// Handler agrupa os métodos de Handler do painel de progresso.
type Handler struct {
	Service DashboardService
	Logger  logger.Logger
}

func NewHandler(svc DashboardService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// CaptureStatsHandler lida com GET /v1/dashboard/capture-stats.
func (h *Handler) CaptureStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.Service.CaptureStats(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, stats, nil, http.StatusOK)
}

// TicketStatsHandler lida com GET /v1/dashboard/ticket-stats.
func (h *Handler) TicketStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.Service.TicketStats(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, stats, nil, http.StatusOK)
}
