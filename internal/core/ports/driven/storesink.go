package driven

import (
	"context"

	"github.com/crboyd/phantom/internal/core/domain"
)

// StoreSink is the persistence boundary for extracted bytes.
//
// Persist must choose a physical name that cannot collide with a
// concurrent call using the same logical name, must never overwrite an
// existing object, and must leave the bytes re-readable at the returned
// descriptor's Path before returning.
type StoreSink interface {
	Persist(ctx context.Context, data []byte, logicalName, containerID string) (domain.StoreDescriptor, error)

	// Lookup returns domain.ErrNotFound for unknown ids.
	Lookup(ctx context.Context, id string) (domain.StoreDescriptor, error)

	// List returns descriptors for a container in persist order.
	// An empty containerID lists everything.
	List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error)
}

// VaultIndex is the catalogue a filesystem vault records descriptors in.
type VaultIndex interface {
	// Insert records a descriptor. It returns domain.ErrAlreadyExists when
	// the ID is taken so the caller can pick another sequence number.
	Insert(ctx context.Context, desc domain.StoreDescriptor) error

	// Get returns domain.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (domain.StoreDescriptor, error)

	// List returns descriptors for a container ordered by creation.
	// An empty containerID lists everything.
	List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error)

	// MaxSequence returns the highest sequence number recorded, or 0.
	MaxSequence(ctx context.Context) (uint64, error)
}
