package auditoria

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/pkg/middleware"
)

// AuditoriaService define o contrato que o Handler espera da camada de Serviço.
type AuditoriaService interface {
	AuditSerial(ctx context.Context, rackID, serial, empID string) (domain.AuditResult, error)
	Status(ctx context.Context, rackID string) (int, error)
	ListLocations(ctx context.Context) ([]domain.AuditLocationSummary, error)
	SerialsByRack(ctx context.Context, rackID string) ([]domain.AuditSerial, error)
}

// Handler agrupa todos os métodos de Handler de auditoria.
type Handler struct {
	Service AuditoriaService
	Logger  logger.Logger
}

func NewHandler(svc AuditoriaService, log logger.Logger) *Handler {
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

// ListHandler lida com GET /v1/auditoria: resumo de todas as ubicações auditáveis.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	locations, err := h.Service.ListLocations(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, locations, nil, http.StatusOK)
}

// RackHandler despacha as rotas /v1/auditoria/{rackID}/{ação}, onde a ação é
// audit (POST), status (GET) ou serials (GET).
func (h *Handler) RackHandler(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Esperado: ["v1", "auditoria", rackID, ação]
	if len(segments) != 4 || segments[2] == "" {
		http.NotFound(w, r)
		return
	}

	rackID := segments[2]

	switch segments[3] {
	case "audit":
		if r.Method != http.MethodPost {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		h.auditSerial(w, r, rackID)
	case "status":
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r, rackID)
	case "serials":
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		h.serials(w, r, rackID)
	default:
		http.NotFound(w, r)
	}
}

// auditSerial registra o escaneamento de auditoria de um serial dentro do rack.
// @Summary Registra auditoria de um serial em um rack
// @Tags auditoria
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Auditoria registrada com progresso"
// @Failure 400 {object} domain.ErrorResponse "Serial malformado ou empregado ausente"
// @Failure 404 {object} domain.ErrorResponse "Serial não encontrado neste rack"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auditoria/{rackID}/audit [post]
func (h *Handler) auditSerial(w http.ResponseWriter, r *http.Request, rackID string) {
	var req struct {
		Serial string `json:"serial"`
		EmpID  string `json:"emp_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	// O token já identifica o auditor; o corpo só precisa trazer o ID quando
	// a requisição vem de um cliente sem sessão.
	if req.EmpID == "" {
		if claims, ok := middleware.GetEmployeeClaimsFromContext(r.Context()); ok {
			req.EmpID = claims.EmpID
		}
	}

	result, err := h.Service.AuditSerial(r.Context(), rackID, req.Serial, req.EmpID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success":   true,
		"progress":  result.Progress,
		"completed": result.Completed,
	}, nil, http.StatusOK)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request, rackID string) {
	estado, err := h.Service.Status(r.Context(), rackID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"estado_auditoria": estado,
	}, nil, http.StatusOK)
}

func (h *Handler) serials(w http.ResponseWriter, r *http.Request, rackID string) {
	serials, err := h.Service.SerialsByRack(r.Context(), rackID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, serials, nil, http.StatusOK)
}
