package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reassignSpeakerID string
	reassignName      string
)

var reassignCmd = &cobra.Command{
	Use:   "reassign <conversation> <message>",
	Short: "Reassign a message to a different speaker",
	Long: `Correct a misattributed message before verifying speakers.

Pass --speaker with an existing speaker id, or --name to reassign to a
speaker by name; an unknown name creates a new speaker.

Examples:
  textdecoder reassign 3fa1 b2c4 --name "Alice"
  textdecoder reassign 3fa1 b2c4 --speaker 9d7e`,
	Args: cobra.ExactArgs(2),
	RunE: runReassign,
}

func init() {
	reassignCmd.Flags().StringVar(&reassignSpeakerID, "speaker", "", "target speaker id")
	reassignCmd.Flags().StringVarP(&reassignName, "name", "n", "", "target speaker name")
}

func runReassign(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	// Message ids accept a unique prefix too.
	messageID := args[1]
	if _, ok := conv.MessageByID(messageID); !ok {
		matches := 0
		for _, m := range conv.Messages {
			if len(messageID) > 0 && len(m.ID) >= len(messageID) && m.ID[:len(messageID)] == messageID {
				matches++
				if matches == 1 {
					messageID = m.ID
				}
			}
		}
		if matches > 1 {
			return fmt.Errorf("message id %q is ambiguous (%d matches)", args[1], matches)
		}
	}

	speakerID := reassignSpeakerID
	if speakerID != "" {
		for _, sp := range conv.Speakers {
			if len(sp.ID) >= len(speakerID) && sp.ID[:len(speakerID)] == speakerID {
				speakerID = sp.ID
				break
			}
		}
	}

	conv, err = eng.UpdateMessageSpeaker(ctx, conv.ID, messageID, speakerID, reassignName)
	if err != nil {
		return fmt.Errorf("reassign message: %w", err)
	}

	m, _ := conv.MessageByID(messageID)
	fmt.Printf("Reassigned message %s to %s\n", shortID(messageID), chipByID(conv, *m))
	return nil
}
