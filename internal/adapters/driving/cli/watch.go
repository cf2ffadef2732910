package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/services"
	"github.com/crboyd/phantom/internal/logger"
)

// defaultSettle is how long a file must stay quiet before it is picked up.
const defaultSettle = 500 * time.Millisecond

var (
	watchRecursive bool
	watchContainer string
	watchSettle    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Add and deflate files dropped into a directory",
	Long: `Watch DIR and, for every file created in it, add the file to the vault
and deflate it. Files that are not archives are stored only.

Hidden files are ignored. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", false, "extract nested archives too")
	watchCmd.Flags().StringVarP(&watchContainer, "container", "c", "", "container to file items under")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", defaultSettle, "quiet period before a file is picked up")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if vaultService == nil || deflater == nil {
		return fmt.Errorf("vault %w", errNotConfigured)
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, domain.ErrInvalidInput)
	}

	ctx := commandContext(cmd)
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", titleStyle.Render(dir))

	opts := watchOptions{Settle: watchSettle}
	err = watchDir(ctx, dir, opts, func(path string) {
		ingest(ctx, cmd, path)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ingest adds one settled file to the vault and deflates it.
func ingest(ctx context.Context, cmd *cobra.Command, path string) {
	desc, err := vaultService.Add(ctx, path, watchContainer)
	if err != nil {
		cmd.PrintErrln(errorStyle.Render(fmt.Sprintf("%s: %v", filepath.Base(path), err)))
		return
	}

	result, err := deflater.Deflate(ctx, desc.ID, watchRecursive, watchContainer)
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		cmd.Printf("%s stored as %s\n", desc.Name, desc.ID)
	case err != nil:
		cmd.PrintErrln(errorStyle.Render(fmt.Sprintf("%s: %s", desc.Name, services.DescribeExtractError(err))))
	default:
		cmd.Printf("%s stored as %s, deflated into %d item(s)\n", desc.Name, desc.ID, len(result.Descriptors))
		if result.Status == domain.ExtractDonePartial {
			cmd.Println(warningStyle.Render("  " + result.Reason))
		}
	}
}

type watchOptions struct {
	// Settle is the quiet period after the last write before a file is handed
	// off. Zero uses defaultSettle.
	Settle time.Duration

	// Ready, if set, is called once the directory is being watched.
	Ready func()
}

// watchDir calls handle once for every regular, non-hidden file created or
// written in dir, after it has been quiet for the settle period. Files are
// handled one at a time on the calling goroutine. It returns when ctx ends.
func watchDir(ctx context.Context, dir string, opts watchOptions, handle func(path string)) error {
	settle := opts.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if opts.Ready != nil {
		opts.Ready()
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if isHidden(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)

				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				logger.Debug("picked up %s", path)
				handle(path)
			}
		}
	}
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
