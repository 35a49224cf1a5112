package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Attack campaign simulator",
	Long: `jarvis synthesizes multi-stage attack campaigns with correlated
entities and delivers the event stream to an HEC-style ingestion endpoint
under real or compressed time.

Use it to exercise detection pipelines with coherent narratives instead of
uncorrelated noise.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = &config.Config{}
	}
}
