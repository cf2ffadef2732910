package extractors

import (
	"io"
	"math"

	"github.com/crboyd/phantom/internal/core/domain"
)

// Budget caps the total decompressed bytes one extraction call may produce,
// across every nesting level. It is not safe for concurrent use; each
// top-level extraction owns its own.
type Budget struct {
	remaining int64
	unlimited bool
}

// NewBudget returns a budget of max bytes. max <= 0 means unlimited.
func NewBudget(maxBytes int64) *Budget {
	return &Budget{remaining: maxBytes, unlimited: maxBytes <= 0}
}

// Remaining returns the bytes left, or -1 when unlimited.
func (b *Budget) Remaining() int64 {
	if b.unlimited {
		return -1
	}
	return b.remaining
}

// ReadAll reads r to EOF, charging the bytes read against the budget.
// It returns domain.ErrSizeExceeded as soon as the budget would be overrun.
func (b *Budget) ReadAll(r io.Reader) ([]byte, error) {
	if b.unlimited {
		return io.ReadAll(r)
	}

	// One byte past the budget is enough to detect an overrun.
	limit := b.remaining
	if limit < math.MaxInt64 {
		limit++
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > b.remaining {
		b.remaining = 0
		return nil, domain.ErrSizeExceeded
	}
	b.remaining -= int64(len(data))
	return data, nil
}
