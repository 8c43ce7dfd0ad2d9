package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initTemplate string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the packrat store",
	Long: `Initialize the database and image directory, applying any pending
schema migrations. With --template, also create a starter location layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if initTemplate != "" {
			loc, err := st.InstantiateTemplate(cmd.Context(), initTemplate, "")
			if err != nil {
				return fmt.Errorf("instantiate template: %w", err)
			}
			fmt.Printf("Created %q from template %s\n", loc.Name, initTemplate)
		}

		fmt.Println("Packrat store initialized")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initTemplate, "template", "", "starter layout (home, office, travel)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("packrat v" + version)
	},
}
