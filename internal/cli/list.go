package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalabcs/textdecoder/internal/models"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long: `List conversations, most recently updated first.

Examples:
  textdecoder list
  textdecoder list --status analyzed`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (draft, speakersIdentified, speakersVerified, analyzing, analyzed, error)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}

	convs, err := eng.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if listStatus != "" {
		filtered := convs[:0]
		for _, c := range convs {
			if c.Status == models.ConversationStatus(listStatus) {
				filtered = append(filtered, c)
			}
		}
		convs = filtered
	}

	if len(convs) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	fmt.Printf("Conversations (%d):\n\n", len(convs))
	for _, c := range convs {
		fmt.Printf("- %s  %s  [%s]\n", shortID(c.ID), titleStyle.Render(c.Title), statusBadge(c.Status))
		if verbose {
			fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("updated %s, %d messages, %d speakers",
				c.UpdatedAt.Format("2006-01-02 15:04"), len(c.Messages), len(c.Speakers))))
		}
	}
	return nil
}
