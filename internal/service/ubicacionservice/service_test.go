package ubicacionservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/service/ubicacionservice"
)

// MockUbicacionRepository é uma implementação mock da interface UbicacionRepository
type MockUbicacionRepository struct {
	mock.Mock
}

func (m *MockUbicacionRepository) Plantas(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUbicacionRepository) Racks(ctx context.Context, storageLocation, planta string) ([]domain.LocationOption, error) {
	args := m.Called(ctx, storageLocation, planta)
	return args.Get(0).([]domain.LocationOption), args.Error(1)
}

func (m *MockUbicacionRepository) Bins(ctx context.Context, storageLocation, rack string) ([]domain.LocationOption, error) {
	args := m.Called(ctx, storageLocation, rack)
	return args.Get(0).([]domain.LocationOption), args.Error(1)
}

func (m *MockUbicacionRepository) PartNumbers(ctx context.Context, area string) ([]domain.PartNumber, error) {
	args := m.Called(ctx, area)
	return args.Get(0).([]domain.PartNumber), args.Error(1)
}

// TestMapArea testa a tabela de apelidos de área da UI.
func TestMapArea(t *testing.T) {
	assert.Equal(t, "mp", ubicacionservice.MapArea("materia-prima"))
	assert.Equal(t, "green", ubicacionservice.MapArea("extrusion"))
	// Áreas sem apelido passam sem alteração.
	assert.Equal(t, "pintura", ubicacionservice.MapArea("pintura"))
}

// TestRacks_AliasMapping testa que a consulta usa o código armazenado, não o da UI.
func TestRacks_AliasMapping(t *testing.T) {
	mockRepo := new(MockUbicacionRepository)
	mockLogger := logger.NewLogger("debug")
	svc := ubicacionservice.NewService(mockRepo, mockLogger)

	expected := []domain.LocationOption{{ID: "RK-01", Name: "RK-01"}}
	mockRepo.On("Racks", mock.Anything, "mp", "PL1").Return(expected, nil)

	ctx := context.Background()
	racks, err := svc.Racks(ctx, "materia-prima", "PL1")

	assert.NoError(t, err)
	assert.Equal(t, expected, racks)
	mockRepo.AssertExpectations(t)
}

// TestRacks_Fail_MissingArea testa a área obrigatória.
func TestRacks_Fail_MissingArea(t *testing.T) {
	mockRepo := new(MockUbicacionRepository)
	mockLogger := logger.NewLogger("debug")
	svc := ubicacionservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.Racks(ctx, "", "PL1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Racks", mock.Anything, mock.Anything, mock.Anything)
}

// TestBins_AliasMapping testa o mapeamento de área também no nível de bin.
func TestBins_AliasMapping(t *testing.T) {
	mockRepo := new(MockUbicacionRepository)
	mockLogger := logger.NewLogger("debug")
	svc := ubicacionservice.NewService(mockRepo, mockLogger)

	expected := []domain.LocationOption{{ID: "BIN-A", Name: "BIN-A"}}
	mockRepo.On("Bins", mock.Anything, "green", "RK-01").Return(expected, nil)

	ctx := context.Background()
	bins, err := svc.Bins(ctx, "extrusion", "RK-01")

	assert.NoError(t, err)
	assert.Equal(t, expected, bins)
	mockRepo.AssertExpectations(t)
}

// TestBins_Fail_MissingRack testa os parâmetros obrigatórios de bins.
func TestBins_Fail_MissingRack(t *testing.T) {
	mockRepo := new(MockUbicacionRepository)
	mockLogger := logger.NewLogger("debug")
	svc := ubicacionservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.Bins(ctx, "mp", "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}
