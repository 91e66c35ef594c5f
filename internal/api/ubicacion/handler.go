package ubicacion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// UbicacionService define o contrato que o Handler espera da camada de Serviço.
type UbicacionService interface {
	Plantas(ctx context.Context) ([]string, error)
	Racks(ctx context.Context, area, planta string) ([]domain.LocationOption, error)
	Bins(ctx context.Context, area, rack string) ([]domain.LocationOption, error)
	PartNumbers(ctx context.Context, area string) ([]domain.PartNumber, error)
}

// Handler agrupa os métodos de Handler do catálogo de ubicações.
type Handler struct {
	Service UbicacionService
	Logger  logger.Logger
}

func NewHandler(svc UbicacionService, log logger.Logger) *Handler {
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

// PlantasHandler lida com GET /v1/plantas.
func (h *Handler) PlantasHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	plantas, err := h.Service.Plantas(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    plantas,
	}, nil, http.StatusOK)
}

// RacksHandler lida com GET /v1/racks?area=&planta=.
func (h *Handler) RacksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	racks, err := h.Service.Racks(r.Context(), q.Get("area"), q.Get("planta"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"racks": racks}, nil, http.StatusOK)
}

// BinsHandler lida com GET /v1/bins?area=&rack=.
func (h *Handler) BinsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	bins, err := h.Service.Bins(r.Context(), q.Get("area"), q.Get("rack"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"bins": bins}, nil, http.StatusOK)
}

// PartNumbersHandler lida com GET /v1/part-numbers?area=.
func (h *Handler) PartNumbersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	parts, err := h.Service.PartNumbers(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, parts, nil, http.StatusOK)
}
