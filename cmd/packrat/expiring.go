package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var expiringDays int

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List items expiring within the next --days days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		bound := time.Now().AddDate(0, 0, expiringDays).UnixMilli()
		items, err := st.ItemsExpiringBefore(cmd.Context(), bound)
		if err != nil {
			return err
		}
		return printResult(items, func() {
			for _, it := range items {
				when := ""
				if it.ExpiryAt != nil {
					when = time.UnixMilli(*it.ExpiryAt).UTC().Format("2006-01-02")
				}
				fmt.Printf("%s  %s  expires %s\n", it.ID, it.Name, when)
			}
			fmt.Printf("%d item(s)\n", len(items))
		})
	},
}

func init() {
	expiringCmd.Flags().IntVar(&expiringDays, "days", 7, "look-ahead window in days")
}
