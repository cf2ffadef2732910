package driving

import "github.com/crboyd/phantom/internal/core/domain"

// SettingsService exposes typed configuration.
type SettingsService interface {
	// Get returns settings with defaults applied for unset keys.
	Get() (*domain.Settings, error)

	// Set validates and persists a single key.
	Set(key, value string) error

	// Keys lists the recognised configuration keys.
	Keys() []string
}
