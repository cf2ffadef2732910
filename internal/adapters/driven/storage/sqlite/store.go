package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/crboyd/phantom/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
)

// dbFile is the catalogue file name inside the data directory.
const dbFile = "vault.db"

// Store is a SQLite-backed catalogue for the vault.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.phantom/vault.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".phantom", "vault")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VaultIndex returns a VaultIndex interface backed by this store.
func (s *Store) VaultIndex() driven.VaultIndex {
	return &vaultIndex{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vault.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Vault Index ====================

// vaultIndex implements driven.VaultIndex.
type vaultIndex struct {
	store *Store
}

var _ driven.VaultIndex = (*vaultIndex)(nil)

// Insert records a descriptor. The primary key rejects a taken ID.
func (v *vaultIndex) Insert(ctx context.Context, desc domain.StoreDescriptor) error {
	if desc.ID == "" {
		return domain.ErrInvalidInput
	}

	res, err := v.store.db.ExecContext(ctx, `
		INSERT INTO vault_items (id, seq, container_id, name, path, size, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, desc.ID, int64(desc.Sequence()), desc.ContainerID, desc.Name, desc.Path,
		desc.Size, desc.Hash, desc.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting vault item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting vault item: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Get retrieves a descriptor by ID.
func (v *vaultIndex) Get(ctx context.Context, id string) (domain.StoreDescriptor, error) {
	row := v.store.db.QueryRowContext(ctx, `
		SELECT id, container_id, name, path, size, hash, created_at
		FROM vault_items WHERE id = ?
	`, id)

	desc, err := scanDescriptor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoreDescriptor{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("querying vault item: %w", err)
	}
	return desc, nil
}

// List returns descriptors ordered by sequence.
func (v *vaultIndex) List(ctx context.Context, containerID string) ([]domain.StoreDescriptor, error) {
	query := `SELECT id, container_id, name, path, size, hash, created_at FROM vault_items`
	var args []any
	if containerID != "" {
		query += ` WHERE container_id = ?`
		args = append(args, containerID)
	}
	query += ` ORDER BY seq`

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vault items: %w", err)
	}
	defer rows.Close()

	var result []domain.StoreDescriptor
	for rows.Next() {
		desc, err := scanDescriptor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vault item: %w", err)
		}
		result = append(result, desc)
	}
	return result, rows.Err()
}

// MaxSequence returns the highest recorded sequence number, or 0.
func (v *vaultIndex) MaxSequence(ctx context.Context) (uint64, error) {
	var seq int64
	row := v.store.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM vault_items`)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("querying max sequence: %w", err)
	}
	return uint64(seq), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDescriptor(row rowScanner) (domain.StoreDescriptor, error) {
	var (
		desc      domain.StoreDescriptor
		createdAt string
	)
	if err := row.Scan(&desc.ID, &desc.ContainerID, &desc.Name, &desc.Path, &desc.Size, &desc.Hash, &createdAt); err != nil {
		return domain.StoreDescriptor{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.StoreDescriptor{}, fmt.Errorf("parsing created_at: %w", err)
	}
	desc.CreatedAt = t
	return desc, nil
}
