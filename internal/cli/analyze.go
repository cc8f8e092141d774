package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeLink bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <conversation>",
	Short: "Run the psychological analysis of a verified conversation",
	Long: `Analyze a speaker-verified conversation: communication styles, power
dynamics, emotional patterns, manipulation checks, and actionable insights.

With --link, every speaker is also linked to their long-term profile
(creating profiles as needed).`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeLink, "link", false, "link speakers to their behavioral profiles")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, true)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Analyzing %s...\n\n", titleStyle.Render(conv.Title))
	conv, err = eng.AnalyzeConversation(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("analyze conversation: %w", err)
	}

	printAnalysis(conv.Analysis)

	if analyzeLink {
		agg, err := getAggregator(ctx, false)
		if err != nil {
			return err
		}
		linked, err := agg.LinkSpeakers(ctx, conv)
		if err != nil {
			return fmt.Errorf("link speaker profiles: %w", err)
		}
		fmt.Printf("\nLinked %d speaker profiles:\n", len(linked))
		for _, p := range linked {
			fmt.Printf("  - %s (%s)\n", p.Name, shortID(p.ID))
		}
	}
	return nil
}
