package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
)

var validateCmd = &cobra.Command{
	Use:   "validate <campaign.yaml>",
	Short: "Validate a campaign definition file",
	Long: `Parse and validate a YAML campaign definition against the generator
registry and entity role catalog without running it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp(cfg, 0)
		if err != nil {
			return err
		}

		c, err := campaign.LoadFile(args[0])
		if err != nil {
			return err
		}
		if err := campaign.Validate(c, application.registry, application.catalog); err != nil {
			return err
		}

		fmt.Printf("Campaign %q is valid:\n", c.ID)
		fmt.Printf("  Phases: %d\n", len(c.Phases))
		fmt.Printf("  Event budget: %d\n", c.TotalBudget())
		fmt.Printf("  Logical duration: %s\n", c.TotalDuration())
		fmt.Printf("  Roles: %v\n", c.Roles())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
