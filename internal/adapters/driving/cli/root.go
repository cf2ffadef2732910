// Package cli implements the phantom command line with spf13/cobra.
//
// Commands talk to the core through driving ports held in package-level
// variables. The binary installs a Bootstrap that builds them once flags are
// parsed; tests install services directly with SetServices.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/crboyd/phantom/internal/core/ports/driving"
	"github.com/crboyd/phantom/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Services are the driving ports the commands use. Any of them may be nil
// when the configuration does not allow building it.
type Services struct {
	Settings driving.SettingsService
	Rest     driving.RestCaller
	Vault    driving.VaultService
	Deflater driving.Deflater
}

// Bootstrap builds services for a configuration directory. The returned
// cleanup func runs after the command finishes.
type Bootstrap func(ctx context.Context, configDir string) (*Services, func() error, error)

var (
	settingsService driving.SettingsService
	restCaller      driving.RestCaller
	vaultService    driving.VaultService
	deflater        driving.Deflater

	bootstrap Bootstrap
	cleanup   func() error

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "phantom",
	Short: "Talk to a Phantom server and deflate archives into the vault",
	Long: `phantom sends requests to a Phantom REST API and classifies the replies,
and stores files in a local vault where archives can be deflated, recursively
if asked, into their members.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if cleanup == nil {
			return nil
		}
		err := cleanup()
		cleanup = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.phantom)")
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	restCaller = s.Rest
	vaultService = s.Vault
	deflater = s.Deflater
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if bootstrap == nil {
		return nil
	}

	services, done, err := bootstrap(commandContext(cmd), configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = done
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var errNotConfigured = errors.New("not configured")
