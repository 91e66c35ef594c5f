package auditoriaservice

import (
	"context"
	"strings"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// AuditoriaRepository define o contrato de persistência que o Serviço de
// Auditoria espera. RegisterAuditScan aplica o escaneo e a eventual conclusão
// da auditoria do rack em uma transação só, e retorna os contadores do rack.
type AuditoriaRepository interface {
	RegisterAuditScan(ctx context.Context, rackID, serial, empID string, threshold float64) (total, audited int, err error)
	Status(ctx context.Context, rackID string) (int, error)
	ListLocations(ctx context.Context) ([]domain.AuditLocationSummary, error)
	SerialsByRack(ctx context.Context, rackID string) ([]domain.AuditSerial, error)
}

// Service implementa o motor de auditoria: marca seriais re-escaneados como
// auditados e acompanha o percentual auditado por rack contra o umbral.
type Service struct {
	repo      AuditoriaRepository
	threshold float64 // Percentual mínimo para auditoria completa (config AUDIT_THRESHOLD)
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Auditoria.
// O umbral vem da configuração; o valor herdado do processo é 10 (%).
func NewService(repo AuditoriaRepository, threshold float64, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		threshold: threshold,
		logger:    logger,
	}
}

// AuditSerial registra o re-escaneo de um serial dentro de um rack.
//
// O lookup é restrito ao rack informado: o mesmo serial capturado em outro
// rack NÃO conta (o erro para o operador é "serial no encontrado en este
// rack"). Re-auditar um serial já auditado é sucesso idempotente: o progresso
// não muda. Abaixo do umbral a auditoria do rack não é alterada; só a captura
// de inventário novo a derruba para incompleta.
func (s *Service) AuditSerial(ctx context.Context, rackID, rawSerial, empID string) (domain.AuditResult, error) {
	if empID == "" {
		return domain.AuditResult{}, apperror.NewValidationError("ID de empleado no proporcionado")
	}
	if rackID == "" {
		return domain.AuditResult{}, apperror.NewValidationError("O rack da auditoria é obrigatório.")
	}

	serial, ok := domain.NormalizeSerial(strings.TrimSpace(rawSerial))
	if !ok {
		return domain.AuditResult{}, apperror.NewValidationError("El serial debe comenzar con S, s, M o m")
	}

	total, audited, err := s.repo.RegisterAuditScan(ctx, rackID, serial, empID, s.threshold)
	if err != nil {
		return domain.AuditResult{}, err
	}

	// total >= 1 sempre: o serial recém-escaneado existe no rack.
	progress := float64(audited) / float64(total) * 100

	result := domain.AuditResult{
		Progress:  progress,
		Completed: progress >= s.threshold,
	}

	s.logger.Info("Escaneo de auditoria registrado.", map[string]interface{}{
		"rack":      rackID,
		"serial":    serial,
		"progress":  progress,
		"completed": result.Completed,
	})
	return result, nil
}

// Status retorna o estado_auditoria (0|1) de um rack; rack sem capturas lê 0.
func (s *Service) Status(ctx context.Context, rackID string) (int, error) {
	if rackID == "" {
		return 0, apperror.NewValidationError("O rack é obrigatório.")
	}
	return s.repo.Status(ctx, rackID)
}

// ListLocations lista os racks com auditoria registrada (tela de pendências,
// atualizada por polling).
func (s *Service) ListLocations(ctx context.Context) ([]domain.AuditLocationSummary, error) {
	return s.repo.ListLocations(ctx)
}

// SerialsByRack lista os seriais de um rack com o flag de auditado.
func (s *Service) SerialsByRack(ctx context.Context, rackID string) ([]domain.AuditSerial, error) {
	if rackID == "" {
		return nil, apperror.NewValidationError("O rack é obrigatório.")
	}
	return s.repo.SerialsByRack(ctx, rackID)
}
