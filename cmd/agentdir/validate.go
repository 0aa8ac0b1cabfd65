package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/presenter"
)

var errInvalidContent = errors.New("content validation failed")

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Watch    bool
	Debounce time.Duration
}

// NewValidateConfig creates a new ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Watch:    false,
		Debounce: 300 * time.Millisecond,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate content frontmatter against the collection schemas",
	Long: `Load every agent, skill and blog entry and report each schema violation as
path: field: message. With --watch the content root is revalidated whenever a
file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config := getValidateConfigFromFlags(cmd)
		if !config.Watch {
			return runValidate(cmd.Context(), appConfig.ContentDir, cmd.OutOrStdout())
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				presenter.Warning("Stopping watcher...")
				cancel()
			case <-ctx.Done():
			}
		}()

		return watchContent(ctx, appConfig.ContentDir, config.Debounce, func() {
			_ = runValidate(ctx, appConfig.ContentDir, cmd.OutOrStdout())
		})
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().BoolP("watch", "w", defaults.Watch, "Revalidate when content changes")
	validateCmd.Flags().Duration("debounce", defaults.Debounce, "Quiet period before revalidating in watch mode")
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()

	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if debounce, err := cmd.Flags().GetDuration("debounce"); err == nil {
		config.Debounce = debounce
	}

	return config
}

func runValidate(ctx context.Context, root string, w io.Writer) error {
	dir, err := content.LoadDir(ctx, root)
	if dir == nil {
		return err
	}

	problems := content.FieldErrors(err)
	for _, fe := range problems {
		fmt.Fprintln(w, fe.Error())
	}
	if err != nil && len(problems) == 0 {
		fmt.Fprintln(w, err.Error())
	}

	counts := make([]interface{}, 0, 3)
	for _, c := range content.Collections() {
		counts = append(counts, len(dir.Entries(c)))
	}
	summary := fmt.Sprintf("%d agents, %d skills, %d posts", counts...)

	if err != nil {
		fmt.Fprintf(w, "✗ %d problem(s); valid: %s\n", max(len(problems), 1), summary)
		return errInvalidContent
	}
	fmt.Fprintf(w, "✓ all content valid: %s\n", summary)
	return nil
}
