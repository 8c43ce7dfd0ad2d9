package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packrat-app/packrat/internal/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export <archive.zip>",
	Short: "Export the full inventory and its images to a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, images, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := backup.ExportFile(cmd.Context(), st, images, args[0]); err != nil {
			return err
		}
		fmt.Println("Exported to", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Replace the entire inventory with the archive's contents",
	Long: `Import a previously exported archive. This is a full replace: every
existing location, folder, item, tag, and packing list is discarded
and the archive's contents take their place. On any failure the
current data is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, images, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := backup.ImportFile(cmd.Context(), st, images, args[0]); err != nil {
			return err
		}
		fmt.Println("Imported from", args[0])
		return nil
	},
}
