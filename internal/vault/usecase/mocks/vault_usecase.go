// Package mocks provides testify mocks of the vault use cases with
// mockery-style EXPECT helpers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

// MockVaultUseCase is a mock implementation of usecase.VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

// MockVaultUseCase_Expecter records expectations on MockVaultUseCase.
type MockVaultUseCase_Expecter struct {
	mock *mock.Mock
}

// NewMockVaultUseCase creates a mock and asserts its expectations on cleanup.
func NewMockVaultUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVaultUseCase {
	m := &MockVaultUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EXPECT returns the expecter.
func (m *MockVaultUseCase) EXPECT() *MockVaultUseCase_Expecter {
	return &MockVaultUseCase_Expecter{mock: &m.Mock}
}

// DeriveKey mocks VaultUseCase.DeriveKey.
func (m *MockVaultUseCase) DeriveKey(ctx context.Context, password string) ([]byte, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// DeriveKey expects a DeriveKey call.
func (e *MockVaultUseCase_Expecter) DeriveKey(ctx, password any) *mock.Call {
	return e.mock.On("DeriveKey", ctx, password)
}

// Store mocks VaultUseCase.Store.
func (m *MockVaultUseCase) Store(ctx context.Context, service, secret, password string) error {
	args := m.Called(ctx, service, secret, password)
	return args.Error(0)
}

// Store expects a Store call.
func (e *MockVaultUseCase_Expecter) Store(ctx, service, secret, password any) *mock.Call {
	return e.mock.On("Store", ctx, service, secret, password)
}

// Retrieve mocks VaultUseCase.Retrieve.
func (m *MockVaultUseCase) Retrieve(ctx context.Context, service, password string) (string, error) {
	args := m.Called(ctx, service, password)
	return args.String(0), args.Error(1)
}

// Retrieve expects a Retrieve call.
func (e *MockVaultUseCase_Expecter) Retrieve(ctx, service, password any) *mock.Call {
	return e.mock.On("Retrieve", ctx, service, password)
}

// List mocks VaultUseCase.List.
func (m *MockVaultUseCase) List(ctx context.Context, password string) ([]string, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// List expects a List call.
func (e *MockVaultUseCase_Expecter) List(ctx, password any) *mock.Call {
	return e.mock.On("List", ctx, password)
}

// Delete mocks VaultUseCase.Delete.
func (m *MockVaultUseCase) Delete(ctx context.Context, service, password string) error {
	args := m.Called(ctx, service, password)
	return args.Error(0)
}

// Delete expects a Delete call.
func (e *MockVaultUseCase_Expecter) Delete(ctx, service, password any) *mock.Call {
	return e.mock.On("Delete", ctx, service, password)
}

// Snapshot mocks VaultUseCase.Snapshot.
func (m *MockVaultUseCase) Snapshot(ctx context.Context, password string) (vaultDomain.Credentials, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(vaultDomain.Credentials), args.Error(1)
}

// Snapshot expects a Snapshot call.
func (e *MockVaultUseCase_Expecter) Snapshot(ctx, password any) *mock.Call {
	return e.mock.On("Snapshot", ctx, password)
}

// StoreAll mocks VaultUseCase.StoreAll.
func (m *MockVaultUseCase) StoreAll(
	ctx context.Context,
	creds vaultDomain.Credentials,
	password string,
) (int, error) {
	args := m.Called(ctx, creds, password)
	return args.Int(0), args.Error(1)
}

// StoreAll expects a StoreAll call.
func (e *MockVaultUseCase_Expecter) StoreAll(ctx, creds, password any) *mock.Call {
	return e.mock.On("StoreAll", ctx, creds, password)
}

// Status mocks VaultUseCase.Status.
func (m *MockVaultUseCase) Status(ctx context.Context, service string) (vaultDomain.Status, error) {
	args := m.Called(ctx, service)
	return args.Get(0).(vaultDomain.Status), args.Error(1)
}

// Status expects a Status call.
func (e *MockVaultUseCase_Expecter) Status(ctx, service any) *mock.Call {
	return e.mock.On("Status", ctx, service)
}

// Ping mocks VaultUseCase.Ping.
func (m *MockVaultUseCase) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ping expects a Ping call.
func (e *MockVaultUseCase_Expecter) Ping(ctx any) *mock.Call {
	return e.mock.On("Ping", ctx)
}
