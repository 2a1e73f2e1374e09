package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zpak-project/zpak/pkg/config"
	"github.com/zpak-project/zpak/pkg/logging"
	"github.com/zpak-project/zpak/pkg/progress"
)

var (
	jsonOutput bool
	quiet      bool
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "zpak",
		Short: "zpak - directory to archive and back",
		Long: `zpak packs a directory tree into a single archive container and
unpacks an archive container back onto the file system, with entry names
normalized so archives move cleanly between platforms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress per-file progress output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
}

// Execute runs the root command, mapping error classes to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}

// setup loads configuration and installs the process logger.
func setup(fsys afero.Fs) (*config.Config, *log.Logger, error) {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "zpak", "config.yaml")
		}
	}
	cfg, err := config.Load(fsys, path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.Setup(cfg.Logging), nil
}

// reportProgress prints one line per processed file unless suppressed.
func reportProgress(verb string) progress.Callback {
	if quiet || jsonOutput {
		return progress.Noop
	}
	return func(op string, current, total int, message string) {
		fmt.Printf("%s %s (%d/%d)\n", verb, message, current, total)
	}
}

// outputJSON prints v as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
