package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/ports/driving"
)

// Ensure VaultService implements the interface.
var _ driving.VaultService = (*VaultService)(nil)

// VaultService adds local files to the vault and reads its catalogue.
type VaultService struct {
	sink driven.StoreSink
}

// NewVaultService creates a vault service.
func NewVaultService(sink driven.StoreSink) *VaultService {
	return &VaultService{sink: sink}
}

// Add copies the file at path into the vault under its base name.
func (s *VaultService) Add(ctx context.Context, path, containerID string) (domain.StoreDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return domain.StoreDescriptor{}, fmt.Errorf("%s is not a regular file: %w", path, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("read %s: %w", path, err)
	}

	desc, err := s.sink.Persist(ctx, data, filepath.Base(path), containerID)
	if err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("store %s: %w", path, err)
	}
	return desc, nil
}

// Get returns the descriptor for id.
func (s *VaultService) Get(ctx context.Context, id string) (domain.StoreDescriptor, error) {
	return s.sink.Lookup(ctx, id)
}

// List returns the descriptors in a container, or all of them.
func (s *VaultService) List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error) {
	return s.sink.List(ctx, containerID)
}
