package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zpak-project/zpak/internal/container"
)

// listEntry is one row of list output.
type listEntry struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`
}

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the entries of an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		if _, _, err := setup(fsys); err != nil {
			return err
		}

		handle, err := container.OpenRead(fsys, args[0])
		if err != nil {
			return err
		}
		defer handle.Close()

		entries := handle.Entries()
		rows := make([]listEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, listEntry{Name: e.Name(), Size: e.Size()})
		}

		if jsonOutput {
			return outputJSON(rows)
		}
		for _, row := range rows {
			fmt.Printf("%10d  %s\n", row.Size, row.Name)
		}
		fmt.Printf("%d entries\n", len(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
