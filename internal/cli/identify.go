package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <conversation>",
	Short: "Identify the speakers in a draft conversation",
	Long: `Send the conversation's raw text to the analysis service and split it
into speaker-attributed messages. Only drafts can be identified; review the
result with "show", fix attributions with "reassign", then "verify".`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, true)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Identifying speakers in %s...\n", titleStyle.Render(conv.Title))
	conv, err = eng.IdentifySpeakers(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("identify speakers: %w", err)
	}

	fmt.Printf("Found %d speakers across %d messages:\n", len(conv.Speakers), len(conv.Messages))
	for _, sp := range conv.Speakers {
		fmt.Printf("  %s\n", speakerChip(sp))
	}
	fmt.Printf("\nNext: review with \"textdecoder show %s\", then \"textdecoder verify %s\"\n",
		shortID(conv.ID), shortID(conv.ID))
	return nil
}
