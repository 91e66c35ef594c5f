package empleadoservice

import (
	"context"
	"strings"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// EmpleadoRepository define o contrato de resolução de crachás.
type EmpleadoRepository interface {
	FindByID(ctx context.Context, empID string) (domain.Empleado, error)
}

// TokenGenerator define o contrato de emissão de tokens para o login.
type TokenGenerator interface {
	GenerateToken(empID string, empNombre string) (string, error)
}

// Service implementa o login por crachá: resolve o emp_id para um empregado
// cadastrado e emite um JWT. Não há senha: a autenticação é a busca do crachá.
type Service struct {
	repo   EmpleadoRepository
	tokens TokenGenerator
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Empregados.
func NewService(repo EmpleadoRepository, tokens TokenGenerator, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login resolve o crachá e emite o token da sessão de conteo.
func (s *Service) Login(ctx context.Context, empID string) (domain.LoginResponse, error) {
	empID = strings.TrimSpace(empID)
	if empID == "" {
		return domain.LoginResponse{}, apperror.NewValidationError("Por favor ingrese su ID de empleado")
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	token, err := s.tokens.GenerateToken(emp.EmpID, emp.EmpNombre)
	if err != nil {
		s.logger.Error("Falha ao emitir token de login.", err)
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao emitir token de login.", err)
	}

	s.logger.Info("Login por crachá realizado.", map[string]interface{}{"emp_id": emp.EmpID})
	return domain.LoginResponse{Token: token, Empleado: emp}, nil
}
