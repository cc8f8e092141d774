package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <conversation> <title>",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}
	conv, err = eng.RenameConversation(ctx, conv.ID, args[1])
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	fmt.Printf("Renamed conversation %s to %s\n", shortID(conv.ID), titleStyle.Render(conv.Title))
	return nil
}
