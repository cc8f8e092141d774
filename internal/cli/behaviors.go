package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var behaviorsCmd = &cobra.Command{
	Use:   "behaviors",
	Short: "List the behavior library the analysis references",
	RunE:  runBehaviors,
}

func runBehaviors(cmd *cobra.Command, args []string) error {
	fmt.Printf("Behavior library v%s (%d behaviors):\n\n", library.Version, library.Count())
	for _, cat := range library.Categories {
		fmt.Println(titleStyle.Render(cat.Name))
		for _, sub := range cat.Subcategories {
			fmt.Printf("  %s\n", sub.Name)
			for _, b := range sub.Behaviors {
				fmt.Printf("    - %s", b.Name)
				if verbose {
					fmt.Printf(" (%s)\n      %s", b.ID, dimStyle.Render(b.Description))
				}
				fmt.Println()
			}
		}
		fmt.Println()
	}
	return nil
}
