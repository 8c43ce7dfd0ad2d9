package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	locationAddIcon  string
	locationAddCover string
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage top-level locations",
}

var locationAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		loc, err := st.CreateLocation(cmd.Context(), args[0], locationAddIcon, locationAddCover)
		if err != nil {
			return err
		}
		return printResult(loc, func() {
			fmt.Printf("%s  %s\n", loc.ID, loc.Name)
		})
	},
}

var locationListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List locations with their aggregate counts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		locs, err := st.ListLocations(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(locs, func() {
			for _, loc := range locs {
				sum, err := st.SummarizeLocation(cmd.Context(), loc.ID)
				if err != nil {
					fmt.Printf("%s  %s\n", loc.ID, loc.Name)
					continue
				}
				fmt.Printf("%s  %s  (%d folders, %d items)\n",
					loc.ID, loc.Name, sum.FolderCount, sum.ItemCount)
			}
		})
	},
}

var locationRmCmd = &cobra.Command{
	Use:   "rm <location-id>",
	Short: "Delete a location and everything inside it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteLocation(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	locationAddCmd.Flags().StringVar(&locationAddIcon, "icon", "", "icon identifier")
	locationAddCmd.Flags().StringVar(&locationAddCover, "cover", "", "cover image path")

	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationListCmd)
	locationCmd.AddCommand(locationRmCmd)
}
