package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteAll bool

var deleteCmd = &cobra.Command{
	Use:   "delete [conversation]",
	Short: "Delete a conversation",
	Long: `Delete a conversation and its analysis. Profiles that referenced it
keep their other history.

With --all, every conversation is deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every conversation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}

	if deleteAll {
		if err := eng.DeleteAllConversations(ctx); err != nil {
			return fmt.Errorf("delete conversations: %w", err)
		}
		fmt.Println("Deleted all conversations.")
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("provide a conversation id or --all")
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}
	if err := eng.DeleteConversation(ctx, conv.ID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Printf("Deleted conversation: %s (%s)\n", conv.Title, shortID(conv.ID))
	return nil
}
