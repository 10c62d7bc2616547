package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/ugcforge/credvault/internal/crypto/domain"

	// Register KMS provider drivers for backup key URIs.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens the keepers that seal exported vault backups.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI, for example "base64key://...",
	// "hashivault://mykey" or "awskms:///alias/credvault".
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a *secrets.Keeper for keyURI. Errors name the URI scheme
// only, since base64key:// URIs embed the key itself.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper for scheme %q: %w", uriScheme(keyURI), err)
	}
	return keeper, nil
}

func uriScheme(keyURI string) string {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return "unknown"
	}
	return u.Scheme
}
