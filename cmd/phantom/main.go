// Command phantom is the command line client for a Phantom server and its
// local evidence vault.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/crboyd/phantom/internal/adapters/driven/config/file"
	"github.com/crboyd/phantom/internal/adapters/driven/sniffer"
	"github.com/crboyd/phantom/internal/adapters/driven/storage/memory"
	"github.com/crboyd/phantom/internal/adapters/driven/storage/sqlite"
	"github.com/crboyd/phantom/internal/adapters/driven/transport/rest"
	"github.com/crboyd/phantom/internal/adapters/driven/vault"
	"github.com/crboyd/phantom/internal/adapters/driving/cli"
	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/services"
	"github.com/crboyd/phantom/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters for one command run.
//
// Invalid settings do not fail the run: only the settings service is
// returned so that "config set" can still repair the file.
func bootstrap(ctx context.Context, configDir string) (*cli.Services, func() error, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("settings are invalid, only config commands will work: %v", err)
		return &cli.Services{Settings: settingsService}, noCleanup, nil
	}

	out := &cli.Services{Settings: settingsService}

	client, err := rest.NewClient(rest.OptionsFromSettings(settings))
	if err != nil {
		logger.Warn("rest client unavailable: %v", err)
	} else {
		out.Rest = services.NewRestService(client, services.NewResponseService())
	}

	vaultDir, err := resolveVaultDir(configDir, settings.Vault.Dir)
	if err != nil {
		return nil, nil, err
	}

	index, closeIndex, err := openIndex(settings.Vault.Index, vaultDir)
	if err != nil {
		return nil, nil, err
	}

	v, err := vault.New(ctx, vaultDir, index)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("opening vault: %w", err), closeIndex())
	}

	extractor := services.NewExtractService(sniffer.New(), v, settings.Extract)
	out.Vault = services.NewVaultService(v)
	out.Deflater = services.NewDeflateService(v, extractor)

	logger.Debug("vault at %s (%s index)", vaultDir, settings.Vault.Index)
	return out, closeIndex, nil
}

func resolveVaultDir(configDir, vaultDir string) (string, error) {
	if vaultDir != "" {
		return vaultDir, nil
	}
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".phantom")
	}
	return filepath.Join(configDir, "vault"), nil
}

func openIndex(kind domain.VaultIndexKind, dir string) (driven.VaultIndex, func() error, error) {
	if kind == domain.VaultIndexMemory {
		return memory.NewVaultIndex(), noCleanup, nil
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening vault index: %w", err)
	}
	return store.VaultIndex(), store.Close, nil
}

func noCleanup() error { return nil }
