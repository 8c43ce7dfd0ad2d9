package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage packing lists",
}

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an empty packing list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := st.CreateList(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(list, func() {
			fmt.Printf("%s  %s\n", list.ID, list.Name)
		})
	},
}

var listLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List packing lists, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		lists, err := st.ListPackingLists(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(lists, func() {
			for _, l := range lists {
				fmt.Printf("%s  %s  (%s)\n", l.ID, l.Name, l.CreatedAt.Format("2006-01-02"))
			}
		})
	},
}

var listShowCmd = &cobra.Command{
	Use:   "show <list-id>",
	Short: "Show a list's entries in insertion order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		entries, err := st.ListEntries(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(entries, func() {
			for _, e := range entries {
				mark := " "
				if e.Checked {
					mark = "x"
				}
				line := fmt.Sprintf("[%s] %s  %s", mark, e.ID, e.Name)
				if e.QuantityNeeded != nil {
					line += fmt.Sprintf("  (need %d)", *e.QuantityNeeded)
				}
				fmt.Println(line)
			}
		})
	},
}

var listEntryCmd = &cobra.Command{
	Use:   "entry <list-id> <name>",
	Short: "Append a free-text entry to a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		entry, err := st.AddListItem(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(entry, func() {
			fmt.Printf("%s  %s\n", entry.ID, entry.Name)
		})
	},
}

var listCheckCmd = &cobra.Command{
	Use:   "check <entry-id>",
	Short: "Toggle an entry's checked state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.ToggleChecked(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Toggled", args[0])
		return nil
	},
}

var listRmEntryCmd = &cobra.Command{
	Use:   "rm-entry <entry-id>",
	Short: "Remove one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteListItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var listRmCmd = &cobra.Command{
	Use:   "rm <list-id>",
	Short: "Delete a list and all of its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteList(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listLsCmd)
	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listEntryCmd)
	listCmd.AddCommand(listCheckCmd)
	listCmd.AddCommand(listRmEntryCmd)
	listCmd.AddCommand(listRmCmd)
}
