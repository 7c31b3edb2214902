package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	lazydir "github.com/TFMV/lazydir/internal/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// Watch command options
	watchEvents    []string
	watchRecursive bool
	watchTemplate  string
	watchTimeout   time.Duration
	watchExisting  bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for filesystem changes",
	Long: `Watch for filesystem changes below a directory and print each event.

Examples:
  lazydir watch /path/to/watch
  lazydir watch --events=create --existing /path/to/watch
  lazydir watch --template="{event} {rel}" /path/to/watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watchDir := "."
		if len(args) > 0 {
			watchDir = args[0]
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var events []lazydir.WatchEvent
		for _, e := range watchEvents {
			event, err := lazydir.ParseWatchEvent(e)
			if err != nil {
				return err
			}
			events = append(events, event)
		}

		opts, err := walkerOptions()
		if err != nil {
			return err
		}

		// List what is already there before reporting changes.
		if watchExisting {
			if err := runList(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), watchDir); err != nil {
				return err
			}
		}

		logger := zap.NewNop()
		if viper.GetBool("verbose") {
			logger, _ = zap.NewDevelopment()
		}
		defer logger.Sync()

		watchOpts := lazydir.WatchOptions{
			Events:    events,
			Recursive: watchRecursive,
			Timeout:   watchTimeout,
			Lister:    opts.Lister,
			Logger:    logger,
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes...\n", watchDir)
		return lazydir.Watch(ctx, watchDir, watchOpts, func(ctx context.Context, result lazydir.WatchResult) error {
			if result.Error != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Error)
				return nil
			}
			msg := result.Message
			if watchTemplate == "" {
				fmt.Fprintf(out, "%s: %s\n", strings.ToUpper(string(msg.Event)), msg.Path)
				return nil
			}
			line := strings.ReplaceAll(watchTemplate, "{event}", string(msg.Event))
			fmt.Fprintln(out, lazydir.FormatPath(line, watchDir, msg.Path))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVar(&watchEvents, "events", []string{}, "Events to watch for (create, modify, delete, rename, chmod)")
	watchCmd.Flags().BoolVar(&watchRecursive, "recursive", true, "Watch subdirectories recursively")
	watchCmd.Flags().StringVar(&watchTemplate, "template", "", "Output template, e.g. '{event} {rel}'")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Duration to watch before exiting (e.g., 1h, 30m)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "List existing files before watching")
}
