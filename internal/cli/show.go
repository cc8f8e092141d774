package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalabcs/textdecoder/internal/models"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <conversation>",
	Short: "Show a conversation, its speakers, and its analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the raw pasted text instead of messages")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", titleStyle.Render(conv.Title), shortID(conv.ID))
	fmt.Printf("Status: %s  Created: %s\n\n", statusBadge(conv.Status), conv.CreatedAt.Format("2006-01-02 15:04"))

	if showRaw {
		fmt.Println(conv.RawText)
		return nil
	}

	if len(conv.Speakers) > 0 {
		fmt.Println(labelStyle.Render("Speakers:"))
		for _, sp := range conv.Speakers {
			mark := ""
			if sp.Verified {
				mark = okStyle.Render(" [verified]")
			}
			fmt.Printf("  %s%s\n", speakerChip(sp), mark)
		}
		fmt.Println()
	}

	if len(conv.Messages) > 0 {
		fmt.Println(labelStyle.Render("Messages:"))
		for _, m := range conv.OrderedMessages() {
			fmt.Printf("  [%s] %s: %s\n", shortID(m.ID), chipByID(conv, m), m.Text)
			if verbose && m.Reasoning != "" {
				fmt.Printf("       %s\n", dimStyle.Render(fmt.Sprintf("confidence %.2f: %s", m.Confidence, m.Reasoning)))
			}
		}
		fmt.Println()
	} else {
		fmt.Println(dimStyle.Render("No messages yet; run: textdecoder identify " + shortID(conv.ID)))
	}

	if conv.Analysis != nil {
		printAnalysis(conv.Analysis)
	}
	return nil
}

func printAnalysis(a *models.AnalysisResult) {
	fmt.Println(labelStyle.Render("Analysis:"))
	fmt.Printf("  %s\n\n", a.Summary)
	fmt.Printf("  Health score: %d/100", a.HealthScore)
	if a.Healthy() {
		fmt.Printf("  %s\n", okStyle.Render("healthy"))
	} else {
		fmt.Printf("  %s\n", warnStyle.Render(a.Relationship.OverallHealth))
	}
	fmt.Printf("  Power balance: %d/10 — %s\n", a.PowerDynamics.BalanceScore, a.PowerDynamics.Assessment)

	if a.Manipulation.Detected {
		fmt.Printf("  %s severity %s\n", warnStyle.Render("Manipulation detected:"), a.Manipulation.Severity)
		fmt.Print(bullets(a.Manipulation.Types, "    "))
	}

	for _, sa := range a.SpeakerAnalyses {
		fmt.Printf("\n  %s — %s communication, %s regulation\n",
			titleStyle.Render(sa.Speaker), sa.CommunicationStyle.Primary, sa.EmotionalPatterns.RegulationLevel)
		if len(sa.RedFlags) > 0 {
			fmt.Printf("    %s\n%s", warnStyle.Render("Red flags:"), bullets(sa.RedFlags, "      "))
		}
		if verbose && len(sa.GreenFlags) > 0 {
			fmt.Printf("    %s\n%s", okStyle.Render("Green flags:"), bullets(sa.GreenFlags, "      "))
		}
	}

	if len(a.Insights) > 0 {
		fmt.Printf("\n  %s\n", labelStyle.Render("Insights:"))
		for _, in := range a.Insights {
			fmt.Printf("    - (%s) %s — %s\n", in.ForSpeaker, in.Insight, in.Suggestion)
		}
	}
	if verbose && len(a.FollowUpQuestions) > 0 {
		fmt.Printf("\n  %s\n%s", labelStyle.Render("Worth asking:"), bullets(a.FollowUpQuestions, "    "))
	}
}
