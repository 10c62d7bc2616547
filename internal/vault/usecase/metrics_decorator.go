package usecase

import (
	"context"
	"time"

	"github.com/ugcforge/credvault/internal/metrics"
	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

const metricsDomain = "vault"

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	v.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// DeriveKey records metrics for key derivation.
func (v *vaultUseCaseWithMetrics) DeriveKey(ctx context.Context, password string) ([]byte, error) {
	start := time.Now()
	key, err := v.next.DeriveKey(ctx, password)
	v.record(ctx, "key_derive", start, err)
	return key, err
}

// Store records metrics for credential storage.
func (v *vaultUseCaseWithMetrics) Store(ctx context.Context, service, secret, password string) error {
	start := time.Now()
	err := v.next.Store(ctx, service, secret, password)
	v.record(ctx, "credential_store", start, err)
	return err
}

// Retrieve records metrics for credential retrieval.
func (v *vaultUseCaseWithMetrics) Retrieve(ctx context.Context, service, password string) (string, error) {
	start := time.Now()
	secret, err := v.next.Retrieve(ctx, service, password)
	v.record(ctx, "credential_retrieve", start, err)
	return secret, err
}

// List records metrics for service listing.
func (v *vaultUseCaseWithMetrics) List(ctx context.Context, password string) ([]string, error) {
	start := time.Now()
	services, err := v.next.List(ctx, password)
	v.record(ctx, "credential_list", start, err)
	return services, err
}

// Delete records metrics for credential deletion.
func (v *vaultUseCaseWithMetrics) Delete(ctx context.Context, service, password string) error {
	start := time.Now()
	err := v.next.Delete(ctx, service, password)
	v.record(ctx, "credential_delete", start, err)
	return err
}

// Snapshot records metrics for full credential set reads.
func (v *vaultUseCaseWithMetrics) Snapshot(
	ctx context.Context,
	password string,
) (vaultDomain.Credentials, error) {
	start := time.Now()
	creds, err := v.next.Snapshot(ctx, password)
	v.record(ctx, "credential_snapshot", start, err)
	return creds, err
}

// StoreAll records metrics for bulk credential writes.
func (v *vaultUseCaseWithMetrics) StoreAll(
	ctx context.Context,
	creds vaultDomain.Credentials,
	password string,
) (int, error) {
	start := time.Now()
	n, err := v.next.StoreAll(ctx, creds, password)
	v.record(ctx, "credential_store_all", start, err)
	return n, err
}

// Status is not instrumented; it backs a status page polled by the UI.
func (v *vaultUseCaseWithMetrics) Status(ctx context.Context, service string) (vaultDomain.Status, error) {
	return v.next.Status(ctx, service)
}

// Ping is not instrumented; it backs the readiness probe.
func (v *vaultUseCaseWithMetrics) Ping(ctx context.Context) error {
	return v.next.Ping(ctx)
}
