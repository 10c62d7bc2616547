package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper (gocloud.dev/secrets) the vault
// uses to wrap backups. Keeping it an interface lets tests substitute fakes.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
