package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pastebox/internal/model"
	"pastebox/internal/service"
)

type MockPasteService struct {
	mock.Mock
}

func (m *MockPasteService) Ingest(ctx context.Context, text string, files []service.Upload) ([]int64, error) {
	args := m.Called(ctx, text, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPasteService) Get(ctx context.Context, id int64) (*model.Paste, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paste), args.Error(1)
}

func (m *MockPasteService) OpenFile(ctx context.Context, id int64) (*service.FileContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileContent), args.Error(1)
}

func (m *MockPasteService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPasteService) List(ctx context.Context, f service.ListFilter) (*service.ListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

type MockBulkService struct {
	mock.Mock
}

func (m *MockBulkService) Export(ctx context.Context, ids []string) (*service.Archive, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Archive), args.Error(1)
}

func (m *MockBulkService) ExportLink(ctx context.Context, ids []string) (*service.ExportLink, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportLink), args.Error(1)
}

func (m *MockBulkService) BulkDelete(ctx context.Context, ids []string) (*service.BulkDeleteResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkDeleteResult), args.Error(1)
}

type MockRootService struct {
	mock.Mock
}

func (m *MockRootService) Current(ctx context.Context) (*service.RootSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RootSettings), args.Error(1)
}

func (m *MockRootService) SetupRequired(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRootService) ChangeRoot(ctx context.Context, path string, isSetup bool) (*service.ChangeRootResult, error) {
	args := m.Called(ctx, path, isSetup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChangeRootResult), args.Error(1)
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMaintenanceService) SweepOrphanFiles(ctx context.Context, dryRun bool) (*service.OrphanReport, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrphanReport), args.Error(1)
}
