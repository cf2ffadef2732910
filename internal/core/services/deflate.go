package services

import (
	"context"
	"fmt"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/ports/driving"
	"github.com/crboyd/phantom/internal/logger"
)

// Ensure DeflateService implements the interface.
var _ driving.Deflater = (*DeflateService)(nil)

// DeflateService extracts an item that is already in the vault.
type DeflateService struct {
	sink      driven.StoreSink
	extractor driving.Extractor
}

// NewDeflateService creates a deflate action over the vault.
func NewDeflateService(sink driven.StoreSink, extractor driving.Extractor) *DeflateService {
	return &DeflateService{sink: sink, extractor: extractor}
}

// Deflate looks up vaultID and extracts it. An empty containerID places
// the results in the item's own container.
func (s *DeflateService) Deflate(
	ctx context.Context,
	vaultID string,
	recursive bool,
	containerID string,
) (domain.ExtractResult, error) {
	if s.sink == nil || s.extractor == nil {
		return domain.ExtractResult{}, fmt.Errorf("deflate: %w", domain.ErrNotImplemented)
	}

	item, err := s.sink.Lookup(ctx, vaultID)
	if err != nil {
		return domain.ExtractResult{}, fmt.Errorf("failed to get vault item info: %w", err)
	}
	if containerID == "" {
		containerID = item.ContainerID
	}

	logger.Debug("deflate %s (%s) into container %q, recursive=%t", item.ID, item.Name, containerID, recursive)
	return s.extractor.Extract(ctx, item.Path, item.Name, recursive, containerID)
}
