package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var impactAs string

var impactCmd = &cobra.Command{
	Use:   "impact <conversation> <draft>",
	Short: "Test how a drafted response would land",
	Long: `Predict the likely emotional impact of a drafted response before you
send it. Nothing is saved: the prediction is printed and discarded.

Examples:
  textdecoder impact 3fa1 "I need some space tonight." --as "Sam"`,
	Args: cobra.ExactArgs(2),
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactAs, "as", "", "which speaker you are (required)")
	_ = impactCmd.MarkFlagRequired("as")
}

func runImpact(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, true)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	result, err := eng.TestResponseImpact(ctx, conv.ID, impactAs, args[1])
	if err != nil {
		return fmt.Errorf("test response impact: %w", err)
	}

	ia := result.Impact
	fmt.Printf("%s %s\n", labelStyle.Render("Likely reception:"), ia.LikelyReception)
	fmt.Printf("  Emotional impact: %s\n", ia.EmotionalImpact)
	fmt.Printf("  Escalation risk: %s, de-escalation potential: %s\n", ia.EscalationRisk, ia.DeEscalationPotential)
	if len(ia.PredictedOutcomes) > 0 {
		fmt.Print(bullets(ia.PredictedOutcomes, "  "))
	}
	fmt.Printf("\n%s %s (%s)\n", labelStyle.Render("Tone:"), result.Tone.DetectedTone, result.Tone.AlignmentWithGoals)
	if verbose && len(result.Tone.Misinterpretations) > 0 {
		fmt.Print(bullets(result.Tone.Misinterpretations, "  "))
	}

	if len(result.Alternatives) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("Alternatives:"))
		for _, alt := range result.Alternatives {
			fmt.Printf("  - (%s) %q\n    %s\n", alt.Approach, alt.Response, dimStyle.Render(alt.LikelyImpact))
		}
	}
	if result.Recommended.Text != "" {
		fmt.Printf("\n%s %q\n  %s\n", labelStyle.Render("Recommended:"), result.Recommended.Text, result.Recommended.Reasoning)
	}
	if verbose && len(result.Tips) > 0 {
		fmt.Printf("\n%s\n%s", labelStyle.Render("Tips:"), bullets(result.Tips, "  "))
	}
	return nil
}
