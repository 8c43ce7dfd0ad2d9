package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/packrat-app/packrat/pkg/types"
)

var (
	itemAddNote   string
	itemAddQty    int64
	itemAddMin    int64
	itemAddExpiry string
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <folder-id> <name>",
	Short: "Create an item inside a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		item := &types.Item{
			FolderID:        args[0],
			Name:            args[1],
			Note:            itemAddNote,
			CurrentQuantity: itemAddQty,
			MinQuantity:     itemAddMin,
		}
		if itemAddExpiry != "" {
			t, err := time.Parse("2006-01-02", itemAddExpiry)
			if err != nil {
				return fmt.Errorf("parse --expires: %w", err)
			}
			ms := t.UnixMilli()
			item.ExpiryAt = &ms
		}

		created, err := st.CreateItem(cmd.Context(), item)
		if err != nil {
			return err
		}
		return printResult(created, func() {
			fmt.Printf("%s  %s  x%d\n", created.ID, created.Name, created.CurrentQuantity)
		})
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show one item and its tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		item, err := st.GetItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tags, err := st.TagsForItem(cmd.Context(), item.ID)
		if err != nil {
			return err
		}
		out := struct {
			Item any `json:"item"`
			Tags any `json:"tags"`
		}{item, tags}
		return printResult(out, func() {
			fmt.Printf("%s  %s  x%d (min %d)\n", item.ID, item.Name, item.CurrentQuantity, item.MinQuantity)
			if item.Note != "" {
				fmt.Println("  note:", item.Note)
			}
			if item.ExpiryAt != nil {
				fmt.Println("  expires:", time.UnixMilli(*item.ExpiryAt).UTC().Format("2006-01-02"))
			}
			for _, t := range tags {
				fmt.Println("  tag:", t.Name)
			}
		})
	},
}

var itemMvCmd = &cobra.Command{
	Use:   "mv <item-id> <folder-id>",
	Short: "Move an item to another folder, same location or not",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.MoveItem(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Moved", args[0])
		return nil
	},
}

var itemUseCmd = &cobra.Command{
	Use:   "use <item-id>",
	Short: "Mark an item as used right now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.TouchLastUsed(cmd.Context(), args[0], time.Now().UnixMilli()); err != nil {
			return err
		}
		fmt.Println("Touched", args[0])
		return nil
	},
}

var itemPhotoCmd = &cobra.Command{
	Use:   "photo <item-id> <image-file>",
	Short: "Attach an image to an item, replacing any existing one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, images, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		item, err := st.GetItem(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open image file: %w", err)
		}
		defer f.Close()

		rel, err := images.Save(cmd.Context(), filepath.Ext(args[1]), f)
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}

		old := item.ImagePath
		item.ImagePath = rel
		if err := st.UpdateItem(cmd.Context(), item); err != nil {
			_ = images.Delete(cmd.Context(), rel)
			return err
		}
		if old != "" {
			_ = images.Delete(cmd.Context(), old)
		}
		fmt.Println("Attached", rel)
		return nil
	},
}

var itemRmCmd = &cobra.Command{
	Use:   "rm <item-id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	itemAddCmd.Flags().StringVar(&itemAddNote, "note", "", "free-text note")
	itemAddCmd.Flags().Int64Var(&itemAddQty, "qty", 1, "current quantity")
	itemAddCmd.Flags().Int64Var(&itemAddMin, "min", 0, "minimum quantity before restock")
	itemAddCmd.Flags().StringVar(&itemAddExpiry, "expires", "", "expiry date (YYYY-MM-DD)")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemMvCmd)
	itemCmd.AddCommand(itemUseCmd)
	itemCmd.AddCommand(itemPhotoCmd)
	itemCmd.AddCommand(itemRmCmd)
}
