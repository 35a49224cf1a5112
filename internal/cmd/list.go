package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available campaigns and generators",
}

var listCampaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List built-in campaign templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp(cfg, 0)
		if err != nil {
			return err
		}

		fmt.Println("Available campaigns:")
		for _, c := range application.library.List() {
			fmt.Printf("  %-20s [%s] %s\n", c.ID, c.Severity, c.Name)
			fmt.Printf("      %d phases, %d events over %s\n",
				len(c.Phases), c.TotalBudget(), c.TotalDuration())
			if len(c.Techniques) > 0 {
				fmt.Printf("      MITRE: %s\n", strings.Join(c.Techniques, ", "))
			}
		}
		return nil
	},
}

var listGeneratorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "List registered event generators",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp(cfg, 0)
		if err != nil {
			return err
		}

		fmt.Println("Registered generators:")
		for _, id := range application.registry.List() {
			gen, _ := application.registry.Get(id)
			fmt.Printf("  %-24s %-22s %s\n", id, gen.SourceType(), gen.Description())
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listCampaignsCmd)
	listCmd.AddCommand(listGeneratorsCmd)
	rootCmd.AddCommand(listCmd)
}
