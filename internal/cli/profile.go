package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalabcs/textdecoder/internal/models"
)

var profileRetentionMonths int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage long-term behavioral profiles",
	Long: `Manage the behavioral profiles built from analyzed conversations.

Subcommands:
  list       List profiles
  show       Show a profile and its analysis
  link       Link a conversation's speakers to profiles
  analyze    Build or refresh a profile's behavioral analysis
  retention  Set how long a profile is kept
  prune      Delete expired profiles
  delete     Delete a profile`,
	RunE: runProfileList,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a profile and its analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileLinkCmd = &cobra.Command{
	Use:   "link <conversation>",
	Short: "Link a conversation's speakers to their profiles",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileLink,
}

var profileAnalyzeCmd = &cobra.Command{
	Use:   "analyze <profile>",
	Short: "Build or refresh the behavioral analysis of a profile",
	Long: `Aggregate the profile's analyzed conversations into a behavioral
profile. At least three linked, analyzed conversations are required. For
the self profile only your own messages are used.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileAnalyze,
}

var profileRetentionCmd = &cobra.Command{
	Use:   "retention <profile>",
	Short: "Set how long a profile is kept",
	Long: `Set the retention window of a profile in 30-day months, counted from
now. Zero keeps the profile indefinitely. The self profile never expires.

Examples:
  textdecoder profile retention alice --months 6
  textdecoder profile retention alice --months 0`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileRetention,
}

var profilePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete profiles whose retention window has lapsed",
	RunE:  runProfilePrune,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <profile>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	profileRetentionCmd.Flags().IntVar(&profileRetentionMonths, "months", 12, "retention in 30-day months (0 = keep forever)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileLinkCmd)
	profileCmd.AddCommand(profileAnalyzeCmd)
	profileCmd.AddCommand(profileRetentionCmd)
	profileCmd.AddCommand(profilePruneCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	profiles, err := agg.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Link one with: textdecoder analyze <conversation> --link")
		return nil
	}

	fmt.Printf("Profiles (%d):\n\n", len(profiles))
	for _, p := range profiles {
		self := ""
		if p.IsUserProfile {
			self = okStyle.Render(" [you]")
		}
		fmt.Printf("- %s%s  %s\n", titleStyle.Render(p.Name), self,
			dimStyle.Render(fmt.Sprintf("(%s, %d conversations)", shortID(p.ID), len(p.ConversationIDs))))
		if p.Summary != nil {
			fmt.Printf("  %s — %s\n", p.Summary.DominantStyle, p.Summary.Headline)
		}
		if verbose && !p.ExpiresAt.IsZero() {
			fmt.Printf("  %s\n", dimStyle.Render("expires "+p.ExpiresAt.Format("2006-01-02")))
		}
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	p, err := resolveProfile(ctx, agg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", titleStyle.Render(p.Name), shortID(p.ID))
	fmt.Printf("Conversations: %d  Retention: %s\n\n", len(p.ConversationIDs), retentionLabel(p))

	if p.Analysis == nil {
		fmt.Println(dimStyle.Render("No analysis yet; run: textdecoder profile analyze " + shortID(p.ID)))
		return nil
	}
	printProfileAnalysis(p.Analysis)
	return nil
}

func retentionLabel(p *models.Profile) string {
	if p.IsUserProfile {
		return "never expires"
	}
	if p.ExpiresAt.IsZero() {
		return "keep forever"
	}
	return fmt.Sprintf("%d months (expires %s)", p.RetentionMonths, p.ExpiresAt.Format("2006-01-02"))
}

func printProfileAnalysis(a *models.ProfileAnalysis) {
	fmt.Println(labelStyle.Render("Profile:"))
	fmt.Printf("  %s\n\n", a.Summary)
	fmt.Printf("  Communication: %s (%s consistency)\n", a.Communication.DominantStyle, a.Communication.StyleConsistency)
	fmt.Printf("  Emotional baseline: %s\n", a.Emotional.BaselineRegulation)
	fmt.Printf("  Attachment: %s\n", a.Attachment.PrimaryStyle)
	fmt.Printf("  Conflict approach: %s\n", a.Conflict.Approach)

	if len(a.Behavioral.Frequent) > 0 {
		fmt.Printf("\n  %s\n", labelStyle.Render("Recurring behaviors:"))
		for _, b := range a.Behavioral.Frequent {
			fmt.Printf("    - %s (%s): %s\n", b.Behavior, b.Frequency, b.Impact)
		}
	}
	if len(a.RedFlags) > 0 {
		fmt.Printf("\n  %s\n%s", warnStyle.Render("Red flags:"), bullets(a.RedFlags, "    "))
	}
	if len(a.GreenFlags) > 0 {
		fmt.Printf("\n  %s\n%s", okStyle.Render("Green flags:"), bullets(a.GreenFlags, "    "))
	}
	if verbose {
		for _, s := range a.Strengths {
			fmt.Printf("\n  Strength: %s — %s\n", s.Name, s.Evidence)
		}
		for _, g := range a.GrowthAreas {
			fmt.Printf("\n  Growth: %s — %s\n", g.Area, g.Suggestion)
		}
	}
	fmt.Printf("\n  %s %s\n", labelStyle.Render("Overall:"), a.OverallAssessment)
}

func runProfileLink(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	conv, err := resolveConversation(ctx, eng, args[0])
	if err != nil {
		return err
	}

	linked, err := agg.LinkSpeakers(ctx, conv)
	if err != nil {
		return fmt.Errorf("link speaker profiles: %w", err)
	}
	fmt.Printf("Linked %d speakers from %s:\n", len(linked), conv.Title)
	for _, p := range linked {
		fmt.Printf("  - %s (%s, %d conversations)\n", p.Name, shortID(p.ID), len(p.ConversationIDs))
	}
	return nil
}

func runProfileAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	agg, err := getAggregator(ctx, true)
	if err != nil {
		return err
	}
	p, err := resolveProfile(ctx, agg, args[0])
	if err != nil {
		return err
	}

	// Load the linked conversation history; missing ids are skipped.
	convs := make([]*models.Conversation, 0, len(p.ConversationIDs))
	for _, id := range p.ConversationIDs {
		conv, err := eng.GetConversation(ctx, id)
		if err != nil {
			continue
		}
		convs = append(convs, conv)
	}

	fmt.Printf("Analyzing profile %s from %d conversations...\n\n", titleStyle.Render(p.Name), len(convs))
	p, err = agg.Analyze(ctx, p.ID, convs)
	if err != nil {
		return fmt.Errorf("analyze profile: %w", err)
	}
	printProfileAnalysis(p.Analysis)
	return nil
}

func runProfileRetention(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	p, err := resolveProfile(ctx, agg, args[0])
	if err != nil {
		return err
	}
	p, err = agg.SetRetention(ctx, p.ID, profileRetentionMonths)
	if err != nil {
		return fmt.Errorf("set retention: %w", err)
	}
	fmt.Printf("Retention for %s: %s\n", p.Name, retentionLabel(p))
	return nil
}

func runProfilePrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	pruned, err := agg.PruneExpired(ctx)
	if err != nil {
		return fmt.Errorf("prune profiles: %w", err)
	}
	if len(pruned) == 0 {
		fmt.Println("No expired profiles.")
		return nil
	}
	fmt.Printf("Pruned %d expired profiles:\n", len(pruned))
	for _, p := range pruned {
		fmt.Printf("  - %s (expired %s)\n", p.Name, p.ExpiresAt.Format("2006-01-02"))
	}
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}
	p, err := resolveProfile(ctx, agg, args[0])
	if err != nil {
		return err
	}
	if err := agg.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	fmt.Printf("Deleted profile: %s (%s)\n", p.Name, shortID(p.ID))
	return nil
}
