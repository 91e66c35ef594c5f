package captura

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// CapturaService define o contrato que o Handler espera da camada de Serviço.
type CapturaService interface {
	CaptureSerial(ctx context.Context, req domain.CaptureRequest) (domain.CaptureRecord, error)
	CaptureBatch(ctx context.Context, req domain.BatchCaptureRequest) (int, error)
	CaptureSpecial(ctx context.Context, req domain.SpecialCaptureRequest) (domain.CaptureRecord, error)
	CheckSerial(ctx context.Context, raw string) (domain.SerialCheck, error)
	CheckPartNumber(ctx context.Context, raw string) (domain.Material, error)
	CapturedByLocation(ctx context.Context, area, rack, bin string) ([]domain.CaptureRecord, error)
	FindSpecialCapture(ctx context.Context, raw string) (domain.CaptureRecord, bool, error)
}

// Handler agrupa todos os métodos de Handler de captura.
type Handler struct {
	Service CapturaService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CapturaService, log logger.Logger) *Handler {
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

// InsertHandler lida com POST /v1/capture/insert. O mesmo endpoint aceita uma
// captura única ou um lote no formato {items: [...]} — a forma do payload
// decide o caminho.
// @Summary Registra uma ou várias capturas de serial
// @Tags capture
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Captura registrada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou serial malformado"
// @Failure 404 {object} domain.ErrorResponse "Empregado não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Serial já capturado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /capture/insert [post]
func (h *Handler) InsertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	// Forma de lote: {items: [...]}
	var batch domain.BatchCaptureRequest
	if err := json.Unmarshal(body, &batch); err == nil && len(batch.Items) > 0 {
		inserted, err := h.Service.CaptureBatch(ctx, batch)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}

		h.handleServiceResponse(w, r, map[string]interface{}{
			"success":       true,
			"insertedCount": inserted,
		}, nil, http.StatusOK)
		return
	}

	// Forma única
	var req domain.CaptureRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	rec, err := h.Service.CaptureSerial(ctx, req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Capture inserted successfully",
		"data": map[string]interface{}{
			"id":          rec.CapturaID,
			"serial":      rec.Serial,
			"material":    rec.Material,
			"descripcion": rec.MaterialDescription,
			"cantidad":    rec.Cantidad,
			"ubicacion":   rec.Ubicacion,
			"rack":        rec.Rack,
		},
	}, nil, http.StatusOK)
}

// CheckSerialHandler lida com GET /v1/capture/check-serial?serial=.
func (h *Handler) CheckSerialHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	check, err := h.Service.CheckSerial(r.Context(), r.URL.Query().Get("serial"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, check, nil, http.StatusOK)
}

// CheckPartNumberHandler lida com GET /v1/capture/check-part-number?partNumber=.
func (h *Handler) CheckPartNumberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	material, err := h.Service.CheckPartNumber(r.Context(), r.URL.Query().Get("partNumber"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"material":             material.Material,
			"material_description": material.MaterialDescription,
		},
	}, nil, http.StatusOK)
}

// SpecialHandler lida com /v1/capture/special: POST registra uma captura do
// caminho restrito; GET consulta se um serial já foi capturado.
func (h *Handler) SpecialHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.insertSpecial(w, r)
	case http.MethodGet:
		h.findSpecial(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) insertSpecial(w http.ResponseWriter, r *http.Request) {
	var req domain.SpecialCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	rec, err := h.Service.CaptureSpecial(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Special capture inserted successfully",
		"data": map[string]interface{}{
			"id":                   rec.CapturaID,
			"serial":               rec.Serial,
			"material":             rec.Material,
			"material_description": rec.MaterialDescription,
			"cantidad":             rec.Cantidad,
			"ubicacion":            rec.Ubicacion,
			"rack":                 rec.Rack,
		},
	}, nil, http.StatusOK)
}

func (h *Handler) findSpecial(w http.ResponseWriter, r *http.Request) {
	rec, found, err := h.Service.FindSpecialCapture(r.Context(), r.URL.Query().Get("serial"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := map[string]interface{}{"exists": found}
	if found {
		response["serial"] = rec
	} else {
		response["serial"] = nil
	}

	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}

// ListHandler lida com GET /v1/capture?area=&rack=&bin=: capturas de uma ubicação.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	recs, err := h.Service.CapturedByLocation(r.Context(), q.Get("area"), q.Get("rack"), q.Get("bin"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, recs, nil, http.StatusOK)
}
