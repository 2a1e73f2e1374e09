package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/internal/packer"
)

var packMethod string

var packCmd = &cobra.Command{
	Use:   "pack <source-dir> [archive]",
	Short: "Pack a directory tree into an archive",
	Long: `Pack every file under a source directory into a new archive.

Hidden and read-only files are included; symbolic links are skipped.
An existing archive at the destination is overwritten. When the archive
argument is omitted, the archive is written next to the current directory
as <source-basename>.zip.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		cfg, logger, err := setup(fsys)
		if err != nil {
			return err
		}

		methodName := packMethod
		if methodName == "" {
			methodName = cfg.Compression
		}
		method, err := container.ParseMethod(methodName)
		if err != nil {
			return err
		}

		source := args[0]
		archive := defaultArchivePath(source)
		if len(args) == 2 {
			archive = args[1]
		}

		p := packer.New(fsys,
			packer.WithMethod(method),
			packer.WithLogger(logger),
			packer.WithProgress(reportProgress("adding")),
		)
		if err := p.CreateFromDirectory(source, archive); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"source": source, "archive": archive})
		}
		fmt.Printf("Packed %s into %s\n", source, archive)
		return nil
	},
}

// defaultArchivePath derives the archive name from the source directory.
func defaultArchivePath(source string) string {
	base := filepath.Base(filepath.Clean(source))
	if base == "." || base == string(filepath.Separator) {
		base = "archive"
	}
	return base + ".zip"
}

// defaultExtractDir derives the destination directory from the archive name.
func defaultExtractDir(archive string) string {
	base := filepath.Base(archive)
	trimmed := strings.TrimSuffix(base, filepath.Ext(base))
	if trimmed == "" || trimmed == base {
		return base + ".d"
	}
	return trimmed
}

func init() {
	packCmd.Flags().StringVar(&packMethod, "method", "", "entry compression method: store or deflate (default from config)")
	rootCmd.AddCommand(packCmd)
}
