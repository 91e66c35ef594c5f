package dashboardservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/service/dashboardservice"
)

// MockDashboardRepository é uma implementação mock da interface DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CaptureCounts(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockDashboardRepository) TicketCounts(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

// TestCaptureStats_Success testa o agregado de capturas contra o catálogo.
func TestCaptureStats_Success(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	mockLogger := logger.NewLogger("debug")
	svc := dashboardservice.NewService(mockRepo, mockLogger)

	mockRepo.On("CaptureCounts", mock.Anything).Return(200, 50, nil)

	ctx := context.Background()
	stats, err := svc.CaptureStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 200, stats.Total)
	assert.Equal(t, 50, stats.Captured)
	assert.Equal(t, 150, stats.Pending)
	assert.Equal(t, 25, stats.Percentage)
}

// TestCaptureStats_EmptyCatalog testa que catálogo vazio rende 0%, não divisão por zero.
func TestCaptureStats_EmptyCatalog(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	mockLogger := logger.NewLogger("debug")
	svc := dashboardservice.NewService(mockRepo, mockLogger)

	mockRepo.On("CaptureCounts", mock.Anything).Return(0, 0, nil)

	ctx := context.Background()
	stats, err := svc.CaptureStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Percentage)
}

// TestTicketStats_Rounding testa o arredondamento do percentual.
func TestTicketStats_Rounding(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	mockLogger := logger.NewLogger("debug")
	svc := dashboardservice.NewService(mockRepo, mockLogger)

	// 1 de 3: 33.33% arredonda para 33.
	mockRepo.On("TicketCounts", mock.Anything).Return(3, 1, nil)

	ctx := context.Background()
	stats, err := svc.TicketStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 33, stats.Percentage)
	assert.Equal(t, 2, stats.Pending)
}

// TestCaptureStats_Fail_RepoError testa a propagação de erro do repositório.
func TestCaptureStats_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockDashboardRepository)
	mockLogger := logger.NewLogger("debug")
	svc := dashboardservice.NewService(mockRepo, mockLogger)

	mockRepo.On("CaptureCounts", mock.Anything).
		Return(0, 0, apperror.NewDBError("Falha ao contar capturas", assert.AnError))

	ctx := context.Background()
	_, err := svc.CaptureStats(ctx)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
}
