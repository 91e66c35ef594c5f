package ubicacionservice

import (
	"context"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// UbicacionRepository define o contrato de leitura do diretório de ubicações.
type UbicacionRepository interface {
	Plantas(ctx context.Context) ([]string, error)
	Racks(ctx context.Context, storageLocation, planta string) ([]domain.LocationOption, error)
	Bins(ctx context.Context, storageLocation, rack string) ([]domain.LocationOption, error)
	PartNumbers(ctx context.Context, area string) ([]domain.PartNumber, error)
}

// Alguns identificadores de área que a UI usa não coincidem com o código
// armazenado no diretório. O mapeamento é uma tabela estática, não lógica
// derivada; qualquer outra área passa sem alteração.
var areaAliases = map[string]string{
	"materia-prima": "mp",
	"extrusion":     "green",
}

// MapArea traduz o identificador de área da UI para o código armazenado.
func MapArea(area string) string {
	if mapped, ok := areaAliases[area]; ok {
		return mapped
	}
	return area
}

// Service implementa o diretório de ubicações: plantas → áreas → racks → bins.
type Service struct {
	repo   UbicacionRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Ubicações.
func NewService(repo UbicacionRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Plantas lista as plantas distintas do diretório.
func (s *Service) Plantas(ctx context.Context) ([]string, error) {
	return s.repo.Plantas(ctx)
}

// Racks lista os racks de uma área (identificador da UI), opcionalmente
// restritos a uma planta.
func (s *Service) Racks(ctx context.Context, area, planta string) ([]domain.LocationOption, error) {
	if area == "" {
		return nil, apperror.NewValidationError("O parâmetro area é obrigatório.")
	}
	return s.repo.Racks(ctx, MapArea(area), planta)
}

// Bins lista os bins de um rack dentro de uma área.
func (s *Service) Bins(ctx context.Context, area, rack string) ([]domain.LocationOption, error) {
	if area == "" || rack == "" {
		return nil, apperror.NewValidationError("Os parâmetros area e rack são obrigatórios.")
	}
	return s.repo.Bins(ctx, MapArea(area), rack)
}

// PartNumbers lista o catálogo de números de parte, com filtro opcional por área.
func (s *Service) PartNumbers(ctx context.Context, area string) ([]domain.PartNumber, error) {
	return s.repo.PartNumbers(ctx, area)
}
