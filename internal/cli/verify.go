package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyUser string

var verifyCmd = &cobra.Command{
	Use:   "verify <conversation>",
	Short: "Confirm speaker attributions and unlock analysis",
	Long: `Mark every message's speaker attribution as reviewed. Analysis only
runs on verified conversations.

Pass --me to mark which speaker is you; profile building uses it to keep
your self-profile based on your own messages only.

Examples:
  textdecoder verify 3fa1
  textdecoder verify 3fa1 --me "Sam"`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyUser, "me", "", "name of the speaker that is you")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	if verifyUser != "" {
		if conv, err = eng.MarkUserSpeaker(ctx, conv.ID, verifyUser); err != nil {
			return fmt.Errorf("mark user speaker: %w", err)
		}
	}

	conv, err = eng.VerifySpeakers(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("verify speakers: %w", err)
	}

	fmt.Printf("Speakers verified for %s [%s]\n", titleStyle.Render(conv.Title), statusBadge(conv.Status))
	fmt.Printf("\nNext: textdecoder analyze %s\n", shortID(conv.ID))
	return nil
}
