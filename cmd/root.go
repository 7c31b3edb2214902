package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	lazydir "github.com/TFMV/lazydir/internal/walk"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lazydir [options] [path]",
	Short: "List every file below a directory as soon as it is found",
	Long: `lazydir prints the absolute path of every file below a directory.
Directories are scanned in the background and paths are printed as they
are discovered, so output starts before the whole tree has been read.

Examples:
  lazydir /path/to/tree
  lazydir --mode=fanout --workers=16 /path/to/tree
  lazydir --output=json --symlinks=follow /path/to/tree
  lazydir --template='{rel} ({ext})' /path/to/tree`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		return runList(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), root)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.lazydir.yaml)")
	rootCmd.PersistentFlags().String("mode", "sequential", "Traversal mode (sequential|fanout|fastwalk)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Concurrent workers for fanout and fastwalk (0 = number of CPUs, -1 = one per directory)")
	rootCmd.PersistentFlags().String("symlinks", "report", "Symbolic link handling (report|follow|ignore)")
	rootCmd.PersistentFlags().Bool("normalize", false, "Print NFC-normalized paths")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Do not report directories that cannot be listed")
	rootCmd.Flags().String("output", "text", "Output format (text|json)")
	rootCmd.Flags().String("template", "", "Output template for text output, e.g. '{rel}' or '{base} in {dir}'")
	rootCmd.Flags().Bool("stats", false, "Print traversal statistics when done")

	// Bind flags to viper
	for _, name := range []string{"mode", "workers", "symlinks", "normalize", "verbose", "silent"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	for _, name := range []string{"output", "template", "stats"} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".lazydir" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lazydir")
	}

	viper.SetEnvPrefix("lazydir")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// walkerOptions builds walker options from the bound configuration.
func walkerOptions() (lazydir.Options, error) {
	opts := lazydir.NewOptions()

	mode, err := lazydir.ParseMode(viper.GetString("mode"))
	if err != nil {
		return opts, err
	}
	opts.Mode = mode

	symlinks, err := lazydir.ParseSymlinkHandling(viper.GetString("symlinks"))
	if err != nil {
		return opts, err
	}
	opts.SymlinkHandling = symlinks

	opts.NumWorkers = viper.GetInt("workers")
	opts.NormalizeNames = viper.GetBool("normalize")

	// Listing failures are printed by runList, so the walker only logs
	// them when asked to be verbose.
	opts.LogLevel = lazydir.LogLevelError
	if viper.GetBool("verbose") {
		opts.LogLevel = lazydir.LogLevelDebug
	}
	return opts, nil
}

// record is one line of JSON output.
type record struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

func runList(ctx context.Context, stdout, stderr io.Writer, root string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := walkerOptions()
	if err != nil {
		return err
	}

	output := viper.GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("invalid output format: %s", output)
	}
	template := viper.GetString("template")
	silent := viper.GetBool("silent")

	w, err := lazydir.NewWithOptions(root, opts)
	if err != nil {
		return err
	}
	defer w.Close()

	enc := json.NewEncoder(stdout)
	var failures int
	for path, err := range w.All(ctx) {
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			switch {
			case output == "json":
				if err := enc.Encode(record{Error: err.Error()}); err != nil {
					return err
				}
			case !silent:
				fmt.Fprintln(stderr, err)
			}
			continue
		}

		switch {
		case output == "json":
			if err := enc.Encode(record{Path: path}); err != nil {
				return err
			}
		case template != "":
			fmt.Fprintln(stdout, lazydir.FormatPath(template, w.Root(), path))
		default:
			fmt.Fprintln(stdout, path)
		}
	}

	if viper.GetBool("stats") {
		<-w.Done()
		s := w.Stats()
		fmt.Fprintf(stderr, "Listed %d files in %d directories (%d errors) in %s\n",
			s.FilesEmitted, s.DirsListed, s.ErrorCount, s.ElapsedTime)
	}

	if failures > 0 {
		return fmt.Errorf("%d directories could not be listed", failures)
	}
	return nil
}
