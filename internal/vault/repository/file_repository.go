// Package repository persists the vault's salt and sealed record on the local
// filesystem.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	vaultDomain "github.com/ugcforge/credvault/internal/vault/domain"
)

const (
	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600
)

// FileRepository stores salt.key and api_keys.enc in a single directory.
//
// Reads never create anything. The directory is created on the first write.
// There is no locking between processes; concurrent writers race and the last
// rename wins.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Dir returns the vault directory.
func (r *FileRepository) Dir() string {
	return r.dir
}

func (r *FileRepository) saltPath() string {
	return filepath.Join(r.dir, vaultDomain.SaltFileName)
}

func (r *FileRepository) recordPath() string {
	return filepath.Join(r.dir, vaultDomain.RecordFileName)
}

// ReadSalt returns the raw salt bytes or vaultDomain.ErrSaltNotFound.
func (r *FileRepository) ReadSalt(ctx context.Context) ([]byte, error) {
	salt, err := os.ReadFile(r.saltPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, vaultDomain.ErrSaltNotFound
		}
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	return salt, nil
}

// WriteSalt creates salt.key. It never overwrites: if the file already exists
// it returns vaultDomain.ErrSaltExists and the caller should re-read.
func (r *FileRepository) WriteSalt(ctx context.Context, salt []byte) error {
	if err := r.ensureDir(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.saltPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return vaultDomain.ErrSaltExists
		}
		return fmt.Errorf("failed to create salt: %w", err)
	}

	if _, err := f.Write(salt); err != nil {
		_ = f.Close()
		_ = os.Remove(r.saltPath())
		return fmt.Errorf("failed to write salt: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(r.saltPath())
		return fmt.Errorf("failed to sync salt: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close salt: %w", err)
	}
	return nil
}

// ReadRecord returns the sealed record text or vaultDomain.ErrRecordNotFound.
func (r *FileRepository) ReadRecord(ctx context.Context) (string, error) {
	data, err := os.ReadFile(r.recordPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", vaultDomain.ErrRecordNotFound
		}
		return "", fmt.Errorf("failed to read vault record: %w", err)
	}
	return string(data), nil
}

// WriteRecord replaces api_keys.enc atomically: the content goes to a temp file
// in the same directory, is fsynced, then renamed over the old record. Readers
// observe either the old or the new record, never a partial one.
func (r *FileRepository) WriteRecord(ctx context.Context, content string) error {
	if err := r.ensureDir(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, vaultDomain.RecordFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod temp record: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp record: %w", err)
	}

	if err := os.Rename(tmpName, r.recordPath()); err != nil {
		return fmt.Errorf("failed to replace vault record: %w", err)
	}
	committed = true

	r.syncDir()
	return nil
}

// RecordExists reports whether api_keys.enc exists.
func (r *FileRepository) RecordExists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.recordPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat vault record: %w", err)
}

// Ping checks that the vault directory is usable without creating it: either
// it exists as a directory, or its parent does.
func (r *FileRepository) Ping(ctx context.Context) error {
	info, err := os.Stat(r.dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("vault path %q is not a directory", r.dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat vault directory: %w", err)
	}

	parent, err := os.Stat(filepath.Dir(filepath.Clean(r.dir)))
	if err != nil {
		return fmt.Errorf("failed to stat vault parent directory: %w", err)
	}
	if !parent.IsDir() {
		return fmt.Errorf("vault parent of %q is not a directory", r.dir)
	}
	return nil
}

func (r *FileRepository) ensureDir() error {
	if err := os.MkdirAll(r.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// syncDir makes the rename durable. Failure is ignored: not every platform
// supports fsync on directories.
func (r *FileRepository) syncDir() {
	d, err := os.Open(r.dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
