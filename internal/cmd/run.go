package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/campaign"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/execution"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

var (
	runCampaign string
	runSpeed    string
	runDryRun   bool
	runSeed     int64
	runHECURL   string
	runToken    string
	runEvents   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one campaign to completion",
	Long: `Execute a campaign and wait for it to finish, printing the delivery
summary.

The --campaign flag accepts a built-in campaign ID or a path to a YAML
definition file.

Examples:
  # Dry-run a built-in campaign, no network side effects
  jarvis run --campaign ransomware --dry-run

  # Deliver at narrative pace to a collector
  jarvis run --campaign credential-theft --speed realtime \
    --hec-url https://collector:8088 --token YOUR_TOKEN

  # Reproducible instant run from a custom definition
  jarvis run --campaign ./my-campaign.yaml --seed 42 --dry-run`,
	RunE: runCampaignCmd,
}

func init() {
	runCmd.Flags().StringVar(&runCampaign, "campaign", "", "campaign ID or YAML file path (required)")
	runCmd.Flags().StringVar(&runSpeed, "speed", "instant", "playback speed: realtime, fast, instant")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "validate the pipeline without network calls")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 = derive from clock)")
	runCmd.Flags().StringVar(&runHECURL, "hec-url", "", "override configured HEC base URL")
	runCmd.Flags().StringVar(&runToken, "token", "", "override configured HEC token")
	runCmd.Flags().BoolVar(&runEvents, "show-events", false, "print generated event payloads with the results")
	_ = runCmd.MarkFlagRequired("campaign")

	rootCmd.AddCommand(runCmd)
}

func runCampaignCmd(cmd *cobra.Command, args []string) error {
	if runHECURL != "" {
		cfg.HEC.URL = runHECURL
	}
	if runToken != "" {
		cfg.HEC.Token = runToken
	}
	if !runDryRun && cfg.HEC.Token == "" {
		return fmt.Errorf("HEC token is required for live delivery (use --token or --dry-run)")
	}

	speed, err := schedule.ParseSpeed(runSpeed)
	if err != nil {
		return err
	}

	application, err := buildApp(cfg, runSeed)
	if err != nil {
		return err
	}

	campaignID, err := resolveCampaign(application)
	if err != nil {
		return err
	}

	execID, err := application.store.Start(campaignID, execution.Options{
		Speed:      speed,
		FastFactor: cfg.Schedule.FastFactor,
		DryRun:     runDryRun,
		Seed:       runSeed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Execution %s started (campaign %s, speed %s, dry-run %v)\n",
		execID, campaignID, speed, runDryRun)

	// Ctrl-C requests a cooperative stop; the summary still prints.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Println("\nStopping execution...")
			_ = application.store.Stop(execID)
		}
	}()

	exec, err := application.store.Get(execID)
	if err != nil {
		return err
	}
	exec.Wait()
	close(sigCh)

	results, err := application.store.Results(execID, runEvents)
	if err != nil {
		return err
	}
	printResults(results)

	if results.Status == execution.StatusFailed {
		return fmt.Errorf("execution failed")
	}
	return nil
}

// resolveCampaign loads a YAML definition into the library when --campaign
// is a file path, otherwise treats it as a built-in ID.
func resolveCampaign(application *app) (string, error) {
	if strings.HasSuffix(runCampaign, ".yaml") || strings.HasSuffix(runCampaign, ".yml") {
		c, err := campaign.LoadFile(runCampaign)
		if err != nil {
			return "", err
		}
		if err := application.library.Add(c, application.registry, application.catalog); err != nil {
			return "", err
		}
		return c.ID, nil
	}
	if _, ok := application.library.Get(runCampaign); !ok {
		return "", fmt.Errorf("unknown campaign %q (try 'jarvis list campaigns')", runCampaign)
	}
	return runCampaign, nil
}

func printResults(results execution.Results) {
	fmt.Printf("\nExecution %s: %s\n", results.ID, results.Status)
	fmt.Printf("  Events: %d attempted, %d succeeded, %d failed\n",
		summaryCount(results, "attempted"), summaryCount(results, "succeeded"), summaryCount(results, "failed"))

	if results.Summary != nil && len(results.Summary.ByPhase) > 0 {
		fmt.Println("  Per phase:")
		phases := make([]string, 0, len(results.Summary.ByPhase))
		for name := range results.Summary.ByPhase {
			phases = append(phases, name)
		}
		sort.Strings(phases)
		for _, name := range phases {
			counts := results.Summary.ByPhase[name]
			fmt.Printf("    %-20s %d/%d delivered\n", name, counts.Succeeded, counts.Attempted)
		}
	}

	if len(results.Events) > 0 {
		fmt.Printf("  Events (%d):\n", len(results.Events))
		for _, payload := range results.Events {
			raw, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			fmt.Printf("    %s\n", raw)
		}
	}

	if len(results.Errors) > 0 {
		fmt.Printf("  Errors (%d):\n", len(results.Errors))
		for _, e := range results.Errors {
			where := e.Phase
			if e.Generator != "" {
				where += "/" + e.Generator
			}
			if e.Endpoint != "" {
				where += " @ " + e.Endpoint
			}
			fmt.Printf("    [%s] %s\n", where, e.Message)
		}
	}
}

func summaryCount(results execution.Results, kind string) int {
	if results.Summary == nil {
		return 0
	}
	switch kind {
	case "attempted":
		return results.Summary.Attempted
	case "succeeded":
		return results.Summary.Succeeded
	default:
		return results.Summary.Failed
	}
}
