package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find items by name, note, folder, location, or tag",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		results, err := st.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printResult(results, func() {
			for _, r := range results {
				fmt.Printf("%s  %s  (%s > %s)\n", r.ItemID, r.ItemName, r.LocationName, r.FolderName)
			}
			fmt.Printf("%d result(s)\n", len(results))
		})
	},
}
