package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/crboyd/phantom/internal/core/domain"
)

// stubSettings is an in-memory driving.SettingsService.
type stubSettings struct {
	settings *domain.Settings
	getErr   error
	setErr   error
	set      map[string]string
}

func (s *stubSettings) Get() (*domain.Settings, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.settings, nil
}

func (s *stubSettings) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.set == nil {
		s.set = make(map[string]string)
	}
	s.set[key] = value
	return nil
}

func (s *stubSettings) Keys() []string {
	return []string{"auth.token", "server.base_url"}
}

// stubRest records the last request and returns a canned outcome.
type stubRest struct {
	outcome domain.ResponseOutcome
	got     domain.Request
	calls   int
}

func (s *stubRest) Call(_ context.Context, req domain.Request) domain.ResponseOutcome {
	s.calls++
	s.got = req
	return s.outcome
}

// stubVault is an in-memory driving.VaultService.
type stubVault struct {
	mu     sync.Mutex
	items  []domain.StoreDescriptor
	added  []string
	addErr error
}

func (s *stubVault) Add(_ context.Context, path, containerID string) (domain.StoreDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return domain.StoreDescriptor{}, s.addErr
	}
	s.added = append(s.added, path)
	desc := domain.StoreDescriptor{
		ID:          "abc-" + string(rune('0'+len(s.added))),
		Name:        path,
		ContainerID: containerID,
	}
	s.items = append(s.items, desc)
	return desc, nil
}

func (s *stubVault) Get(_ context.Context, id string) (domain.StoreDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.StoreDescriptor{}, domain.ErrNotFound
}

func (s *stubVault) List(_ context.Context, containerID string) ([]domain.StoreDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StoreDescriptor
	for _, item := range s.items {
		if containerID == "" || item.ContainerID == containerID {
			out = append(out, item)
		}
	}
	return out, nil
}

// stubDeflater returns a canned result and error.
type stubDeflater struct {
	mu        sync.Mutex
	result    domain.ExtractResult
	err       error
	ids       []string
	recursive bool
	container string
}

func (s *stubDeflater) Deflate(_ context.Context, vaultID string, recursive bool, containerID string) (domain.ExtractResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, vaultID)
	s.recursive = recursive
	s.container = containerID
	return s.result, s.err
}

func (s *stubDeflater) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// resetFlags restores every command flag variable to its zero value.
func resetFlags() {
	requestData = ""
	requestHeaders = nil
	requestQuery = nil
	requestNoAuth = false
	vaultContainer = ""
	deflateRecursive = false
	deflateContainer = ""
	watchRecursive = false
	watchContainer = ""
	watchSettle = defaultSettle
	verbose = false
}

// runCommand executes rootCmd with services installed and returns stdout
// and stderr combined.
func runCommand(t *testing.T, services *Services, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	SetServices(services)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		SetServices(nil)
		resetFlags()
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
