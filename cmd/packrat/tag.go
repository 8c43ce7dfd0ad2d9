package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	tagAddParent    string
	tagParentDetach bool
	tagParentID     string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags and item tag sets",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag, optionally grouped under --parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		tag, err := st.CreateTag(cmd.Context(), args[0], optional(tagAddParent))
		if err != nil {
			return err
		}
		return printResult(tag, func() {
			fmt.Printf("%s  %s\n", tag.ID, tag.Name)
		})
	},
}

var tagLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List every tag",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		tags, err := st.ListTags(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(tags, func() {
			for _, t := range tags {
				if t.ParentID != nil {
					fmt.Printf("%s  %s  (under %s)\n", t.ID, t.Name, *t.ParentID)
					continue
				}
				fmt.Printf("%s  %s\n", t.ID, t.Name)
			}
		})
	},
}

var tagParentCmd = &cobra.Command{
	Use:   "parent <tag-id>",
	Short: "Re-group a tag under --parent, or detach it with --none",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		parent := optional(tagParentID)
		if tagParentDetach {
			parent = nil
		}
		if err := st.SetTagParent(cmd.Context(), args[0], parent); err != nil {
			return err
		}
		fmt.Println("Updated", args[0])
		return nil
	},
}

var tagSetCmd = &cobra.Command{
	Use:   "set <item-id> [tag-id...]",
	Short: "Replace an item's tag set; no tag ids clears it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.SetTagsForItem(cmd.Context(), args[0], args[1:]); err != nil {
			return err
		}
		fmt.Printf("Set %d tags on %s\n", len(args)-1, args[0])
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <tag-id>",
	Short: "Delete a tag; child tags survive, item links are removed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := st.DeleteTag(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func init() {
	tagAddCmd.Flags().StringVar(&tagAddParent, "parent", "", "parent tag id")
	tagParentCmd.Flags().StringVar(&tagParentID, "parent", "", "new parent tag id")
	tagParentCmd.Flags().BoolVar(&tagParentDetach, "none", false, "detach from any parent")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagLsCmd)
	tagCmd.AddCommand(tagParentCmd)
	tagCmd.AddCommand(tagSetCmd)
	tagCmd.AddCommand(tagRmCmd)
}
