package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show the effective settings or change a single key in the config file.

Secrets are masked when shown. Pass "-" as VALUE to type it without echo.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one configuration key",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// passwordReader is swapped out in tests.
var passwordReader = readPassword

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println(titleStyle.Render("Server"))
	cmd.Printf("  base_url:            %s\n", orUnset(s.Server.BaseURL))
	cmd.Printf("  verify_certificate:  %t\n", s.Server.VerifyCertificate)

	cmd.Println(titleStyle.Render("Auth"))
	cmd.Printf("  token:               %s\n", maskSecret(s.Auth.Token))
	cmd.Printf("  username:            %s\n", orUnset(s.Auth.Username))
	cmd.Printf("  password:            %s\n", maskSecret(s.Auth.Password))
	cmd.Printf("  bearer_token:        %s\n", maskSecret(s.Auth.BearerToken))

	cmd.Println(titleStyle.Render("Transport"))
	cmd.Printf("  timeout:             %s\n", s.Transport.Timeout)
	if s.Transport.RateLimit > 0 {
		cmd.Printf("  rate_limit:          %g/s\n", s.Transport.RateLimit)
	} else {
		cmd.Printf("  rate_limit:          %s\n", mutedStyle.Render("off"))
	}

	cmd.Println(titleStyle.Render("Vault"))
	cmd.Printf("  dir:                 %s\n", orUnset(s.Vault.Dir))
	cmd.Printf("  index:               %s\n", s.Vault.Index)

	cmd.Println(titleStyle.Render("Extract"))
	cmd.Printf("  max_depth:           %d\n", s.Extract.MaxDepth)
	cmd.Printf("  max_bytes:           %d\n", s.Extract.MaxBytes)
	cmd.Printf("  extended_formats:    %t\n", s.Extract.ExtendedFormats)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	key, value := args[0], args[1]
	if value == "-" {
		cmd.Printf("Value for %s: ", key)
		value = passwordReader()
		cmd.Println()
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w\nknown keys: %s",
			key, err, strings.Join(settingsService.Keys(), ", "))
	}

	cmd.Println(successStyle.Render("Saved " + key))
	return nil
}

func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return mutedStyle.Render("(not set)")
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}

func orUnset(s string) string {
	if s == "" {
		return mutedStyle.Render("(not set)")
	}
	return s
}
