package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/ports/driving"
	"github.com/crboyd/phantom/internal/extractors"
	"github.com/crboyd/phantom/internal/logger"
)

// Ensure ExtractService implements the interface.
var _ driving.Extractor = (*ExtractService)(nil)

// ExtractService deflates archives into a store sink, descending into
// nested archives when asked to.
type ExtractService struct {
	sniffer  driven.Sniffer
	sink     driven.StoreSink
	settings domain.ExtractSettings
}

// NewExtractService creates an extractor. A MaxDepth or MaxBytes of zero
// or less disables that limit.
func NewExtractService(sniffer driven.Sniffer, sink driven.StoreSink, settings domain.ExtractSettings) *ExtractService {
	return &ExtractService{
		sniffer:  sniffer,
		sink:     sink,
		settings: settings,
	}
}

// extraction holds the state shared by every level of one Extract call.
type extraction struct {
	ctx         context.Context
	svc         *ExtractService
	budget      *extractors.Budget
	recursive   bool
	containerID string
}

// Extract unpacks the archive at path into the sink.
//
// The format is taken from the content alone; name only feeds the output
// name of single-stream payloads. Members are persisted in container order
// and the first failure stops the walk. Whatever was persisted before the
// failure stays persisted and is listed in the returned result.
func (s *ExtractService) Extract(
	ctx context.Context,
	path, name string,
	recursive bool,
	containerID string,
) (domain.ExtractResult, error) {
	if s.sniffer == nil || s.sink == nil {
		return domain.ExtractResult{}, fmt.Errorf("extract: %w", domain.ErrNotImplemented)
	}

	x := &extraction{
		ctx:         ctx,
		svc:         s,
		budget:      extractors.NewBudget(s.settings.MaxBytes),
		recursive:   recursive,
		containerID: containerID,
	}

	var result domain.ExtractResult
	err := x.run(path, name, 0, &result)
	if err != nil {
		logger.Warn("deflation of %s stopped after %d item(s): %v", name, len(result.Descriptors), err)
		return result, err
	}
	logger.Info("deflated %s: %d item(s), status %s", name, len(result.Descriptors), result.Status)
	if left := x.budget.Remaining(); left >= 0 {
		logger.Debug("%d byte(s) of decompression budget left", left)
	}
	return result, nil
}

func (x *extraction) run(path, name string, depth int, result *domain.ExtractResult) error {
	if err := x.ctx.Err(); err != nil {
		return err
	}

	kind, mime, err := x.svc.sniffer.Sniff(path)
	if err != nil {
		return fmt.Errorf("sniff %s: %w", name, err)
	}
	if !kind.Supported(x.svc.settings.ExtendedFormats) {
		return &domain.ExtractError{Kind: domain.ErrUnsupportedFormat, Format: mime}
	}
	if limit := x.svc.settings.MaxDepth; limit > 0 && depth > limit {
		return &domain.ExtractError{Kind: domain.ErrDepthExceeded, Format: kind.String(), Entry: name}
	}

	logger.Debug("deflating %s as %s (depth %d)", name, mime, depth)

	var (
		format    string
		persisted int
	)
	visit := func(member domain.ArchiveMember) error {
		if err := x.ctx.Err(); err != nil {
			return err
		}
		persisted++
		return x.handOff(member, format, depth, result)
	}

	switch {
	case kind == domain.KindZip:
		format = kind.String()
		err = extractors.WalkZip(path, x.budget, visit)
	case extractors.IsTarStream(path, kind):
		format = extractors.TarFormat(kind)
		err = x.walkTar(path, kind, format, visit)
	default:
		format = kind.String()
		err = x.inflate(path, name, kind, visit)
	}
	if err != nil {
		return err
	}

	if persisted == 0 {
		result.Partial(fmt.Sprintf("%s archive %q has no extractable entries", format, name))
	}
	return nil
}

func (x *extraction) walkTar(path string, kind domain.ArchiveKind, format string, visit extractors.Visitor) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.ExtractError{Kind: domain.ErrCorruptContainer, Format: format, Err: err}
	}
	defer f.Close()

	if kind == domain.KindTar {
		return extractors.WalkTar(f, format, x.budget, visit)
	}

	sr, err := extractors.NewStreamReader(kind, f)
	if err != nil {
		return &domain.ExtractError{Kind: domain.ErrCorruptContainer, Format: format, Err: err}
	}
	defer sr.Close()
	return extractors.WalkTar(sr, format, x.budget, visit)
}

func (x *extraction) inflate(path, name string, kind domain.ArchiveKind, visit extractors.Visitor) error {
	f, err := os.Open(path)
	if err != nil {
		return &domain.ExtractError{Kind: domain.ErrStreamDecompress, Format: kind.String(), Err: err}
	}
	defer f.Close()

	data, err := extractors.InflateStream(kind, f, x.budget)
	if err != nil {
		return err
	}
	return visit(domain.ArchiveMember{Name: extractors.StripExtension(name), Data: data})
}

// handOff persists one member and, when recursive, descends into it if the
// persisted bytes are themselves a supported archive.
func (x *extraction) handOff(member domain.ArchiveMember, format string, depth int, result *domain.ExtractResult) error {
	desc, err := x.svc.sink.Persist(x.ctx, member.Data, member.Name, x.containerID)
	if err != nil {
		return &domain.ExtractError{Kind: domain.ErrSinkFailure, Format: format, Entry: member.Name, Err: err}
	}
	result.Add(desc)

	if !x.recursive {
		logger.Debug("persisted %s as %s", member.Name, desc.ID)
		return nil
	}

	kind, _, err := x.svc.sniffer.Sniff(desc.Path)
	if err != nil {
		return fmt.Errorf("sniff %s: %w", desc.Path, err)
	}
	member.IsContainerFormat = kind.Supported(x.svc.settings.ExtendedFormats)
	logger.Debug("persisted %s as %s (container=%t)", member.Name, desc.ID, member.IsContainerFormat)
	if !member.IsContainerFormat {
		return nil
	}

	return x.run(desc.Path, desc.Name, depth+1, result)
}

// DescribeExtractError renders an extraction failure for people.
func DescribeExtractError(err error) string {
	var ee *domain.ExtractError
	if !errors.As(err, &ee) {
		return err.Error()
	}
	switch {
	case errors.Is(ee.Kind, domain.ErrUnsupportedFormat):
		return fmt.Sprintf("Deflation of file type: %s not supported", ee.Format)
	case errors.Is(ee.Kind, domain.ErrDepthExceeded):
		return fmt.Sprintf("Archive %s is nested too deeply", ee.Entry)
	case errors.Is(ee.Kind, domain.ErrSizeExceeded):
		return "Decompressed data exceeds the configured size limit"
	default:
		return err.Error()
	}
}
