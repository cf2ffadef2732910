package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseURL         = "server.base_url"
	keyVerifyCert      = "server.verify_certificate"
	keyAuthToken       = "auth.token"
	keyAuthUsername    = "auth.username"
	keyAuthPassword    = "auth.password"
	keyAuthBearer      = "auth.bearer_token"
	keyTimeoutSeconds  = "transport.timeout_seconds"
	keyRateLimit       = "transport.rate_limit"
	keyVaultDir        = "vault.dir"
	keyVaultIndex      = "vault.index"
	keyMaxDepth        = "extract.max_depth"
	keyMaxBytes        = "extract.max_bytes"
	keyExtendedFormats = "extract.extended_formats"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindFloat
)

var knownKeys = map[string]keyKind{
	keyBaseURL:         kindString,
	keyVerifyCert:      kindBool,
	keyAuthToken:       kindString,
	keyAuthUsername:    kindString,
	keyAuthPassword:    kindString,
	keyAuthBearer:      kindString,
	keyTimeoutSeconds:  kindInt,
	keyRateLimit:       kindFloat,
	keyVaultDir:        kindString,
	keyVaultIndex:      kindString,
	keyMaxDepth:        kindInt,
	keyMaxBytes:        kindInt,
	keyExtendedFormats: kindBool,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.Settings{
		Server: domain.ServerSettings{
			BaseURL:           s.configStore.GetString(keyBaseURL),
			VerifyCertificate: s.getBool(keyVerifyCert, defaults.Server.VerifyCertificate),
		},
		Auth: domain.AuthSettings{
			Token:       s.configStore.GetString(keyAuthToken),
			Username:    s.configStore.GetString(keyAuthUsername),
			Password:    s.configStore.GetString(keyAuthPassword),
			BearerToken: s.configStore.GetString(keyAuthBearer),
		},
		Transport: domain.TransportSettings{
			Timeout:   s.getSeconds(keyTimeoutSeconds, defaults.Transport.Timeout),
			RateLimit: s.configStore.GetFloat(keyRateLimit),
		},
		Vault: domain.VaultSettings{
			Dir:   s.configStore.GetString(keyVaultDir),
			Index: domain.VaultIndexKind(s.getString(keyVaultIndex, string(defaults.Vault.Index))),
		},
		Extract: domain.ExtractSettings{
			MaxDepth:        s.getInt(keyMaxDepth, defaults.Extract.MaxDepth),
			MaxBytes:        int64(s.getInt(keyMaxBytes, int(defaults.Extract.MaxBytes))),
			ExtendedFormats: s.getBool(keyExtendedFormats, defaults.Extract.ExtendedFormats),
		},
	}

	if !settings.Vault.Index.IsValid() {
		return nil, fmt.Errorf("%w: %s must be sqlite or memory, got %q",
			domain.ErrInvalidInput, keyVaultIndex, settings.Vault.Index)
	}
	if settings.Transport.RateLimit < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, keyRateLimit)
	}

	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s expects a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		if key == keyVaultIndex && !domain.VaultIndexKind(value).IsValid() {
			return fmt.Errorf("%w: %s must be sqlite or memory", domain.ErrInvalidInput, key)
		}
		parsed = value
	}

	return s.configStore.Set(key, parsed)
}

// Keys lists the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats an explicit 0 as a value; only an absent key gets the default.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}
