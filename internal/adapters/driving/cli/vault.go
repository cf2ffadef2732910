package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crboyd/phantom/internal/core/domain"
)

var vaultContainer string

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage items in the local vault",
	Long:  `Add files to the vault, list its items, or show one item.`,
}

var vaultAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Copy a file into the vault",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultAdd,
}

var vaultListCmd = &cobra.Command{
	Use:   "list [CONTAINER]",
	Short: "List vault items, optionally for one container",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVaultList,
}

var vaultGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one vault item",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultGet,
}

func init() {
	vaultAddCmd.Flags().StringVarP(&vaultContainer, "container", "c", "", "container to file the item under")
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultGetCmd)
	rootCmd.AddCommand(vaultCmd)
}

func runVaultAdd(cmd *cobra.Command, args []string) error {
	if vaultService == nil {
		return fmt.Errorf("vault service %w", errNotConfigured)
	}

	desc, err := vaultService.Add(commandContext(cmd), args[0], vaultContainer)
	if err != nil {
		return fmt.Errorf("failed to add to vault: %w", err)
	}

	cmd.Printf("Added %s as %s\n", desc.Name, titleStyle.Render(desc.ID))
	return nil
}

func runVaultList(cmd *cobra.Command, args []string) error {
	if vaultService == nil {
		return fmt.Errorf("vault service %w", errNotConfigured)
	}

	container := ""
	if len(args) == 1 {
		container = args[0]
	}

	items, err := vaultService.List(commandContext(cmd), container)
	if err != nil {
		return fmt.Errorf("failed to list vault: %w", err)
	}

	if len(items) == 0 {
		cmd.Println("No vault items found")
		return nil
	}

	for i := range items {
		printDescriptorLine(cmd, items[i])
	}
	cmd.Printf("\nTotal: %d items\n", len(items))
	return nil
}

func runVaultGet(cmd *cobra.Command, args []string) error {
	if vaultService == nil {
		return fmt.Errorf("vault service %w", errNotConfigured)
	}

	desc, err := vaultService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get vault item: %w", err)
	}

	cmd.Printf("Vault item: %s\n\n", titleStyle.Render(desc.ID))
	cmd.Printf("  Name:       %s\n", desc.Name)
	cmd.Printf("  Container:  %s\n", desc.ContainerID)
	cmd.Printf("  Size:       %d bytes\n", desc.Size)
	cmd.Printf("  BLAKE3:     %s\n", desc.Hash)
	cmd.Printf("  Path:       %s\n", desc.Path)
	cmd.Printf("  Created:    %s\n", desc.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func printDescriptorLine(cmd *cobra.Command, desc domain.StoreDescriptor) {
	container := desc.ContainerID
	if container == "" {
		container = "-"
	}
	cmd.Printf("  %s  %s  %s\n", desc.ID, desc.Name, mutedStyle.Render(fmt.Sprintf("(%s, %d bytes)", container, desc.Size)))
}
