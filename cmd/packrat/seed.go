package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packrat-app/packrat/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty store with demo data",
	Long: `Seed the store with a small demo inventory. A store that already
holds locations is left untouched. Available starter templates for
"packrat init --template": ` + strings.Join(store.TemplateKeys(), ", ") + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.SeedDemo(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Seeded demo data")
		return nil
	},
}
