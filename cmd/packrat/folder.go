package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	folderAddParent string
	folderAddIcon   string
	folderLsParent  string
	folderMvParent  string
	folderMvDetach  bool
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders inside a location",
}

var folderAddCmd = &cobra.Command{
	Use:   "add <location-id> <name>",
	Short: "Create a folder, optionally nested under --parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		f, err := st.CreateFolder(cmd.Context(), args[0], optional(folderAddParent), args[1], folderAddIcon, "")
		if err != nil {
			return err
		}
		return printResult(f, func() {
			fmt.Printf("%s  %s\n", f.ID, f.Name)
		})
	},
}

var folderLsCmd = &cobra.Command{
	Use:   "ls <location-id>",
	Short: "List folders at a level and, under --parent, the items there",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		folders, items, err := st.ListChildren(cmd.Context(), args[0], optional(folderLsParent))
		if err != nil {
			return err
		}
		out := struct {
			Folders any `json:"folders"`
			Items   any `json:"items"`
		}{folders, items}
		return printResult(out, func() {
			for _, f := range folders {
				sum, err := st.SummarizeFolder(cmd.Context(), f.ID)
				if err != nil {
					fmt.Printf("%s  %s/\n", f.ID, f.Name)
					continue
				}
				fmt.Printf("%s  %s/  (%d sub-areas, %d items)\n",
					f.ID, f.Name, sum.SubFolderCount, sum.ItemCount)
			}
			for _, it := range items {
				fmt.Printf("%s  %s  x%d\n", it.ID, it.Name, it.CurrentQuantity)
			}
		})
	},
}

var folderMvCmd = &cobra.Command{
	Use:   "mv <folder-id>",
	Short: "Re-parent a folder within its location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		f, err := st.GetFolder(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if folderMvDetach {
			f.ParentID = nil
		} else {
			f.ParentID = optional(folderMvParent)
		}
		if err := st.UpdateFolder(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Println("Moved", f.Name)
		return nil
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <folder-id>",
	Short: "Delete a folder and its entire subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteFolder(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var folderCrumbsCmd = &cobra.Command{
	Use:   "crumbs <location-id> [folder-id]",
	Short: "Print the breadcrumb trail from the location down to a folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		var folderID *string
		if len(args) == 2 {
			folderID = &args[1]
		}
		trail, err := st.Breadcrumbs(cmd.Context(), args[0], folderID)
		if err != nil {
			return err
		}
		return printResult(trail, func() {
			names := make([]string, len(trail))
			for i, b := range trail {
				names[i] = b.Name
			}
			fmt.Println(strings.Join(names, " > "))
		})
	},
}

func init() {
	folderAddCmd.Flags().StringVar(&folderAddParent, "parent", "", "parent folder id")
	folderAddCmd.Flags().StringVar(&folderAddIcon, "icon", "", "icon identifier")
	folderLsCmd.Flags().StringVar(&folderLsParent, "parent", "", "parent folder id (omit for the location root)")
	folderMvCmd.Flags().StringVar(&folderMvParent, "parent", "", "new parent folder id")
	folderMvCmd.Flags().BoolVar(&folderMvDetach, "root", false, "move to the location root")

	folderCmd.AddCommand(folderAddCmd)
	folderCmd.AddCommand(folderLsCmd)
	folderCmd.AddCommand(folderMvCmd)
	folderCmd.AddCommand(folderRmCmd)
	folderCmd.AddCommand(folderCrumbsCmd)
}
