package mocks

import (
	"context"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of backend.Backend interface.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) FetchStages(ctx context.Context, developmentID string) ([]models.Stage, error) {
	args := m.Called(ctx, developmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Stage), args.Error(1)
}

func (m *MockBackend) FetchStageFieldConfig(ctx context.Context, developmentID string, stageID int) (*models.StageFieldConfig, error) {
	args := m.Called(ctx, developmentID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.StageFieldConfig), args.Error(1)
}

func (m *MockBackend) SubmitActivity(ctx context.Context, developmentID string, payload models.ActivityPayload) (*models.Activity, error) {
	args := m.Called(ctx, developmentID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockBackend) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockBackend) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

var _ backend.Backend = (*MockBackend)(nil)
