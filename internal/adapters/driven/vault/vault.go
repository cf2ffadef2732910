// Package vault stores extracted bytes as immutable files on local disk.
//
// Every persisted object lives at
//
//	<root>/<container>/<hash>-<seq>-<name>
//
// where hash is the first 16 hex digits of the BLAKE3 digest of the
// content and seq is a process-wide counter seeded from the catalogue.
// Files are created with O_EXCL, so an existing object is never
// overwritten; on a collision the next sequence number is tried. The
// object ID is <hash>-<seq>.
package vault

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.StoreSink = (*Vault)(nil)

const (
	// InvalidName replaces logical names that cannot be used on disk.
	InvalidName = "_invalid_file_name_"

	// DefaultContainer holds objects persisted without a container.
	DefaultContainer = "_default"

	hashPrefixLen = 16
	maxNameLen    = 200
	maxAttempts   = 64
)

// Vault is a filesystem StoreSink with a pluggable catalogue.
type Vault struct {
	root  string
	index driven.VaultIndex
	seq   atomic.Uint64
	now   func() time.Time
}

// New opens the vault at root, creating it if needed, and seeds the
// sequence counter from the catalogue.
func New(ctx context.Context, root string, index driven.VaultIndex) (*Vault, error) {
	if root == "" {
		return nil, fmt.Errorf("vault root: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}

	last, err := index.MaxSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading vault sequence: %w", err)
	}

	v := &Vault{root: root, index: index, now: time.Now}
	v.seq.Store(last)
	return v, nil
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Persist writes data under a fresh, never reused physical name and
// records it in the catalogue.
func (v *Vault) Persist(ctx context.Context, data []byte, logicalName, containerID string) (domain.StoreDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return domain.StoreDescriptor{}, err
	}

	sum := blake3.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	name := SanitizeName(logicalName)

	dir := filepath.Join(v.root, containerDir(containerID))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("creating container directory: %w", err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := fmt.Sprintf("%s-%d", hash[:hashPrefixLen], v.seq.Add(1))
		path := filepath.Join(dir, id+"-"+name)

		err := writeExclusive(path, data)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return domain.StoreDescriptor{}, err
		}

		desc := domain.StoreDescriptor{
			ID:          id,
			Path:        path,
			Name:        logicalName,
			ContainerID: containerID,
			Size:        int64(len(data)),
			Hash:        hash,
			CreatedAt:   v.now().UTC(),
		}
		err = v.index.Insert(ctx, desc)
		if errors.Is(err, domain.ErrAlreadyExists) {
			_ = os.Remove(path)
			continue
		}
		if err != nil {
			_ = os.Remove(path)
			return domain.StoreDescriptor{}, fmt.Errorf("recording %s: %w", id, err)
		}
		return desc, nil
	}

	return domain.StoreDescriptor{}, fmt.Errorf("no free name for %q after %d attempts: %w", logicalName, maxAttempts, domain.ErrAlreadyExists)
}

// Lookup returns the descriptor for id.
func (v *Vault) Lookup(ctx context.Context, id string) (domain.StoreDescriptor, error) {
	return v.index.Get(ctx, id)
}

// List returns the descriptors in a container, or all of them.
func (v *Vault) List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error) {
	return v.index.List(ctx, containerID)
}

// writeExclusive creates path, failing with fs.ErrExist if it is taken,
// and syncs the bytes before returning.
func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// SanitizeName makes a logical name safe to use as one path component.
// Separators become "-"; names that are empty or only dots become
// InvalidName. Long names are truncated.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '-'
		case 0:
			return -1
		default:
			return r
		}
	}, name)

	if strings.Trim(name, ".") == "" {
		return InvalidName
	}
	if len(name) > maxNameLen {
		name = strings.ToValidUTF8(name[:maxNameLen], "")
	}
	return name
}

func containerDir(containerID string) string {
	if containerID == "" {
		return DefaultContainer
	}
	return SanitizeName(containerID)
}
