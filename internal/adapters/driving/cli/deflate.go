package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/services"
)

var (
	deflateRecursive bool
	deflateContainer string
)

var deflateCmd = &cobra.Command{
	Use:   "deflate VAULT_ID",
	Short: "Extract an archive stored in the vault",
	Long: `Extract the members of a vault item into the vault.

Supported formats are zip, tar, gzip and bzip2, plus zstd and lz4 when
extract.extended_formats is enabled. The format is detected from content,
never from the file name. With --recursive, members that are themselves
archives are extracted too.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeflate,
}

func init() {
	deflateCmd.Flags().BoolVarP(&deflateRecursive, "recursive", "r", false, "extract nested archives too")
	deflateCmd.Flags().StringVarP(&deflateContainer, "container", "c", "", "container for the results (default: the item's own)")
	rootCmd.AddCommand(deflateCmd)
}

func runDeflate(cmd *cobra.Command, args []string) error {
	if deflater == nil {
		return fmt.Errorf("deflate service %w", errNotConfigured)
	}

	result, err := deflater.Deflate(commandContext(cmd), args[0], deflateRecursive, deflateContainer)
	printExtractResult(cmd, result)
	if err != nil {
		return errors.New(services.DescribeExtractError(err))
	}
	return nil
}

func printExtractResult(cmd *cobra.Command, result domain.ExtractResult) {
	for i := range result.Descriptors {
		printDescriptorLine(cmd, result.Descriptors[i])
	}
	cmd.Printf("total_vault_items: %d\n", len(result.Descriptors))
	if result.Status == domain.ExtractDonePartial {
		cmd.Println(warningStyle.Render("status: " + result.Status.String() + " (" + result.Reason + ")"))
	} else {
		cmd.Println(successStyle.Render("status: " + result.Status.String()))
	}
}
