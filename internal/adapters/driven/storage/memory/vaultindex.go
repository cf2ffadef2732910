package memory

import (
	"context"
	"sync"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
)

// Ensure VaultIndex implements the interface.
var _ driven.VaultIndex = (*VaultIndex)(nil)

// VaultIndex is an in-memory implementation of driven.VaultIndex.
// Contents are lost when the process exits.
type VaultIndex struct {
	mu     sync.RWMutex
	byID   map[string]domain.StoreDescriptor
	order  []string
	maxSeq uint64
}

// NewVaultIndex creates a new in-memory vault catalogue.
func NewVaultIndex() *VaultIndex {
	return &VaultIndex{
		byID: make(map[string]domain.StoreDescriptor),
	}
}

// Insert records a descriptor.
func (v *VaultIndex) Insert(_ context.Context, desc domain.StoreDescriptor) error {
	if desc.ID == "" {
		return domain.ErrInvalidInput
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.byID[desc.ID]; ok {
		return domain.ErrAlreadyExists
	}
	v.byID[desc.ID] = desc
	v.order = append(v.order, desc.ID)
	if seq := desc.Sequence(); seq > v.maxSeq {
		v.maxSeq = seq
	}
	return nil
}

// Get retrieves a descriptor by ID.
func (v *VaultIndex) Get(_ context.Context, id string) (domain.StoreDescriptor, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	desc, ok := v.byID[id]
	if !ok {
		return domain.StoreDescriptor{}, domain.ErrNotFound
	}
	return desc, nil
}

// List returns descriptors in insertion order.
func (v *VaultIndex) List(_ context.Context, containerID string) ([]domain.StoreDescriptor, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	result := make([]domain.StoreDescriptor, 0, len(v.order))
	for _, id := range v.order {
		desc := v.byID[id]
		if containerID != "" && desc.ContainerID != containerID {
			continue
		}
		result = append(result, desc)
	}
	return result, nil
}

// MaxSequence returns the highest sequence number inserted so far.
func (v *VaultIndex) MaxSequence(_ context.Context) (uint64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxSeq, nil
}
