package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restockName string

var restockCmd = &cobra.Command{
	Use:   "restock",
	Short: "Generate a packing list from items below their minimum quantity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := st.GenerateRestockList(cmd.Context(), restockName)
		if err != nil {
			return err
		}
		if list == nil {
			fmt.Println("Nothing to restock")
			return nil
		}

		entries, err := st.ListEntries(cmd.Context(), list.ID)
		if err != nil {
			return err
		}
		out := struct {
			List    any `json:"list"`
			Entries any `json:"entries"`
		}{list, entries}
		return printResult(out, func() {
			fmt.Printf("%s  %s\n", list.ID, list.Name)
			for _, e := range entries {
				need := int64(1)
				if e.QuantityNeeded != nil {
					need = *e.QuantityNeeded
				}
				fmt.Printf("  %s  need %d\n", e.Name, need)
			}
		})
	},
}

func init() {
	restockCmd.Flags().StringVar(&restockName, "name", "", "list name (default: Restock <date>)")
}
