package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zpak-project/zpak/internal/container"
	"github.com/zpak-project/zpak/internal/extractor"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive> [directory]",
	Short: "Unpack an archive into a directory",
	Long: `Unpack every entry of an archive into a destination directory,
creating it if absent. Entries the destination already contains are
overwritten; unrelated files are left alone. When the directory argument
is omitted, the archive basename without its extension is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		_, logger, err := setup(fsys)
		if err != nil {
			return err
		}

		archive := args[0]
		dest := defaultExtractDir(archive)
		if len(args) == 2 {
			dest = args[1]
		}

		handle, err := container.OpenRead(fsys, archive)
		if err != nil {
			return err
		}
		defer handle.Close()

		e := extractor.New(fsys,
			extractor.WithLogger(logger),
			extractor.WithProgress(reportProgress("extracting")),
		)
		if err := e.Extract(handle, dest); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"archive": archive, "destination": dest})
		}
		fmt.Printf("Unpacked %s into %s\n", archive, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}
