package empleadoservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/service/empleadoservice"
)

// MockEmpleadoRepository é uma implementação mock da interface EmpleadoRepository
type MockEmpleadoRepository struct {
	mock.Mock
}

func (m *MockEmpleadoRepository) FindByID(ctx context.Context, empID string) (domain.Empleado, error) {
	args := m.Called(ctx, empID)
	return args.Get(0).(domain.Empleado), args.Error(1)
}

// MockTokenGenerator é uma implementação mock da interface TokenGenerator
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(empID string, empNombre string) (string, error) {
	args := m.Called(empID, empNombre)
	return args.String(0), args.Error(1)
}

// TestLogin_Success testa o login por crachá com emissão de token.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockEmpleadoRepository)
	mockTokens := new(MockTokenGenerator)
	mockLogger := logger.NewLogger("debug")
	svc := empleadoservice.NewService(mockRepo, mockTokens, mockLogger)

	mockRepo.On("FindByID", mock.Anything, "12345").Return(domain.Empleado{EmpID: "12345", EmpNombre: "Juan Pérez"}, nil)
	mockTokens.On("GenerateToken", "12345", "Juan Pérez").Return("token-abc", nil)

	ctx := context.Background()
	resp, err := svc.Login(ctx, "  12345  ")

	assert.NoError(t, err)
	assert.Equal(t, "token-abc", resp.Token)
	assert.Equal(t, "Juan Pérez", resp.Empleado.EmpNombre)
	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

// TestLogin_Fail_EmptyID testa o crachá vazio.
func TestLogin_Fail_EmptyID(t *testing.T) {
	mockRepo := new(MockEmpleadoRepository)
	mockTokens := new(MockTokenGenerator)
	mockLogger := logger.NewLogger("debug")
	svc := empleadoservice.NewService(mockRepo, mockTokens, mockLogger)

	ctx := context.Background()
	_, err := svc.Login(ctx, "   ")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "Por favor ingrese su ID de empleado")
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestLogin_Fail_UnknownEmployee testa o crachá não cadastrado.
func TestLogin_Fail_UnknownEmployee(t *testing.T) {
	mockRepo := new(MockEmpleadoRepository)
	mockTokens := new(MockTokenGenerator)
	mockLogger := logger.NewLogger("debug")
	svc := empleadoservice.NewService(mockRepo, mockTokens, mockLogger)

	mockRepo.On("FindByID", mock.Anything, "99999").
		Return(domain.Empleado{}, apperror.NewNotFoundError("Empleado no encontrado"))

	ctx := context.Background()
	_, err := svc.Login(ctx, "99999")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockTokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}
