package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/digitalabcs/textdecoder/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage counts and session operation timings",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	eng, err := getEngine(ctx, false)
	if err != nil {
		return err
	}
	agg, err := getAggregator(ctx, false)
	if err != nil {
		return err
	}

	convs, err := eng.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	profiles, err := agg.List(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	byStatus := map[models.ConversationStatus]int{}
	for _, c := range convs {
		byStatus[c.Status]++
	}

	fmt.Printf("Conversations: %d\n", len(convs))
	for _, s := range []models.ConversationStatus{
		models.StatusDraft, models.StatusSpeakersIdentified, models.StatusSpeakersVerified,
		models.StatusAnalyzing, models.StatusAnalyzed, models.StatusError,
	} {
		if n := byStatus[s]; n > 0 {
			fmt.Printf("  %s: %d\n", statusBadge(s), n)
		}
	}
	fmt.Printf("Profiles: %d\n", len(profiles))

	snap := collector.Snapshot()
	if len(snap.Operations) == 0 {
		return nil
	}
	fmt.Printf("\nSession operations (%.0fs uptime):\n", snap.UptimeSeconds)
	ops := make([]string, 0, len(snap.Operations))
	for op := range snap.Operations {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		o := snap.Operations[op]
		fmt.Printf("  %-22s %d calls, %d failed, avg %.1fms\n", op, o.Count, o.Failures, o.AvgTimeMs)
	}
	return nil
}
