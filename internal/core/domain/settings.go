package domain

import "time"

// Defaults applied when the config file does not set a key.
const (
	DefaultTimeout         = 120 * time.Second
	DefaultMaxDepth        = 16
	DefaultMaxBytes  int64 = 1 << 30
	DefaultVaultIndex      = VaultIndexSQLite
)

// VaultIndexKind selects the catalogue backing the vault.
type VaultIndexKind string

// Available vault catalogues.
const (
	// VaultIndexSQLite persists the catalogue next to the vault.
	VaultIndexSQLite VaultIndexKind = "sqlite"

	// VaultIndexMemory keeps the catalogue for the process lifetime only.
	VaultIndexMemory VaultIndexKind = "memory"
)

// IsValid returns true if the catalogue kind is recognised.
func (k VaultIndexKind) IsValid() bool {
	return k == VaultIndexSQLite || k == VaultIndexMemory
}

// ServerSettings describes the remote REST endpoint.
type ServerSettings struct {
	// BaseURL is prepended to request paths, e.g. https://phantom.example.
	BaseURL string

	// VerifyCertificate enables TLS certificate validation.
	VerifyCertificate bool
}

// AuthSettings holds the credentials injected in AuthDefault mode.
type AuthSettings struct {
	Token       string
	Username    string
	Password    string
	BearerToken string
}

// HasBasic reports whether both halves of basic auth are configured.
func (a AuthSettings) HasBasic() bool {
	return a.Username != "" && a.Password != ""
}

// TransportSettings controls request timing.
type TransportSettings struct {
	Timeout time.Duration

	// RateLimit is requests per second; zero disables throttling.
	RateLimit float64
}

// VaultSettings locates the vault on disk.
type VaultSettings struct {
	Dir   string
	Index VaultIndexKind
}

// ExtractSettings bounds recursive deflation.
type ExtractSettings struct {
	MaxDepth        int
	MaxBytes        int64
	ExtendedFormats bool
}

// Settings is the typed view of the configuration file.
type Settings struct {
	Server    ServerSettings
	Auth      AuthSettings
	Transport TransportSettings
	Vault     VaultSettings
	Extract   ExtractSettings
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Transport: TransportSettings{Timeout: DefaultTimeout},
		Vault:     VaultSettings{Index: DefaultVaultIndex},
		Extract: ExtractSettings{
			MaxDepth: DefaultMaxDepth,
			MaxBytes: DefaultMaxBytes,
		},
	}
}
