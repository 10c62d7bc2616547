package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// MockBackupUseCase is a mock implementation of usecase.BackupUseCase.
type MockBackupUseCase struct {
	mock.Mock
}

// MockBackupUseCase_Expecter records expectations on MockBackupUseCase.
type MockBackupUseCase_Expecter struct {
	mock *mock.Mock
}

// NewMockBackupUseCase creates a mock and asserts its expectations on cleanup.
func NewMockBackupUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBackupUseCase {
	m := &MockBackupUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EXPECT returns the expecter.
func (m *MockBackupUseCase) EXPECT() *MockBackupUseCase_Expecter {
	return &MockBackupUseCase_Expecter{mock: &m.Mock}
}

// Export mocks BackupUseCase.Export.
func (m *MockBackupUseCase) Export(ctx context.Context, password, keyURI string) (*vaultDomain.Backup, error) {
	args := m.Called(ctx, password, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Backup), args.Error(1)
}

// Export expects an Export call.
func (e *MockBackupUseCase_Expecter) Export(ctx, password, keyURI any) *mock.Call {
	return e.mock.On("Export", ctx, password, keyURI)
}

// Import mocks BackupUseCase.Import.
func (m *MockBackupUseCase) Import(
	ctx context.Context,
	backup *vaultDomain.Backup,
	password, keyURI string,
) (int, error) {
	args := m.Called(ctx, backup, password, keyURI)
	return args.Int(0), args.Error(1)
}

// Import expects an Import call.
func (e *MockBackupUseCase_Expecter) Import(ctx, backup, password, keyURI any) *mock.Call {
	return e.mock.On("Import", ctx, backup, password, keyURI)
}
