package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pastebox/internal/model"
	"pastebox/internal/repository"
)

type MockPasteRepository struct {
	mock.Mock
}

func (m *MockPasteRepository) Create(ctx context.Context, p *model.Paste) (*model.Paste, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paste), args.Error(1)
}

func (m *MockPasteRepository) FindByID(ctx context.Context, id int64) (*model.Paste, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paste), args.Error(1)
}

func (m *MockPasteRepository) FindFileByStoredName(ctx context.Context, name string) (*model.Paste, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paste), args.Error(1)
}

func (m *MockPasteRepository) List(ctx context.Context, q repository.ListQuery) (*repository.PageResult[model.Paste], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Paste]), args.Error(1)
}

func (m *MockPasteRepository) ListFiles(ctx context.Context) ([]model.Paste, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paste), args.Error(1)
}

func (m *MockPasteRepository) StoredNames(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockPasteRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPasteRepository) DeleteMany(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockPasteRepository) SetFileSize(ctx context.Context, id int64, size int64) error {
	args := m.Called(ctx, id, size)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
