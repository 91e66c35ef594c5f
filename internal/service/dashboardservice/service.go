package dashboardservice

import (
	"context"
	"math"

	"invfisico/internal/domain"
	"invfisico/internal/pkg/logger"
)

// DashboardRepository define o contrato de leitura dos contadores agregados.
type DashboardRepository interface {
	CaptureCounts(ctx context.Context) (total, captured int, err error)
	TicketCounts(ctx context.Context) (total, captured int, err error)
}

// Service computa os agregados do dashboard a partir dos contadores brutos.
type Service struct {
	repo   DashboardRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Dashboard.
func NewService(repo DashboardRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CaptureStats retorna o percentual de materiais do catálogo já capturados.
func (s *Service) CaptureStats(ctx context.Context) (domain.CaptureStats, error) {
	total, captured, err := s.repo.CaptureCounts(ctx)
	if err != nil {
		return domain.CaptureStats{}, err
	}

	return domain.CaptureStats{
		Total:      total,
		Captured:   captured,
		Pending:    total - captured,
		Percentage: percentage(captured, total),
	}, nil
}

// TicketStats retorna o percentual de talones já capturados (capturas de
// origem talón são as sem grupo).
func (s *Service) TicketStats(ctx context.Context) (domain.TicketStats, error) {
	total, captured, err := s.repo.TicketCounts(ctx)
	if err != nil {
		return domain.TicketStats{}, err
	}

	return domain.TicketStats{
		Total:      total,
		Captured:   captured,
		Pending:    total - captured,
		Percentage: percentage(captured, total),
	}, nil
}

// percentage arredonda captured/total para percentual inteiro.
// Total zero (catálogo ou talones vazios) rende 0, nunca erro ou NaN.
func percentage(captured, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(captured) / float64(total) * 100))
}
