package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	addTitle string
	addFile  string
	addStdin bool
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new conversation from pasted text",
	Long: `Add a new conversation from raw text.

The text is stored as a draft; run "textdecoder identify" next to split it
into speaker-attributed messages.

Examples:
  textdecoder add "Alice: hey, are you free tonight? Bob: maybe, why?"
  textdecoder add --file chat-export.txt --title "Tuesday argument"
  pbpaste | textdecoder add --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "conversation title (derived from the text if omitted)")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read the conversation text from a file")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "read the conversation text from stdin")
}

func runAdd(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case addFile != "":
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("read conversation file: %w", err)
		}
		text = string(data)
	case addStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("provide conversation text as an argument, --file, or --stdin")
	}

	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}

	conv, err := eng.CreateConversation(ctx, addTitle, text)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	fmt.Printf("Created conversation: %s (%s)\n", titleStyle.Render(conv.Title), shortID(conv.ID))
	fmt.Printf("  Status: %s\n", statusBadge(conv.Status))
	fmt.Printf("\nNext: textdecoder identify %s\n", shortID(conv.ID))
	return nil
}
