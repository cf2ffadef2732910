package driving

import (
	"context"

	"github.com/crboyd/phantom/internal/core/domain"
)

// Extractor deflates an archive on disk into the vault.
type Extractor interface {
	// Extract unpacks the archive at path. name is the logical name used to
	// derive the output name of single-stream payloads. The returned result
	// lists everything persisted, even when an error is also returned.
	Extract(ctx context.Context, path, name string, recursive bool, containerID string) (domain.ExtractResult, error)
}

// Deflater runs extraction on an item already stored in the vault.
type Deflater interface {
	Deflate(ctx context.Context, vaultID string, recursive bool, containerID string) (domain.ExtractResult, error)
}

// VaultService exposes the vault to driving adapters.
type VaultService interface {
	Add(ctx context.Context, path, containerID string) (domain.StoreDescriptor, error)
	Get(ctx context.Context, id string) (domain.StoreDescriptor, error)
	List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error)
}
