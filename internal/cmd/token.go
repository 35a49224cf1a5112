package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roarinpenguin/jarvis-coding-sub000/pkg/tokens"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenScopes  []string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the control API",
	Long: `Sign a bearer token with the configured server auth secret. Present it
to a running jarvis server as "Authorization: Bearer <token>".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := tokenSecret
		if secret == "" {
			secret = cfg.Server.AuthSecret
		}
		if secret == "" {
			return fmt.Errorf("no signing secret (set --secret or server.auth_secret)")
		}

		tg := tokens.NewTokenGenerator(secret, tokenTTL)
		token, err := tg.Generate(tokenSubject, tokenScopes)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (overrides server.auth_secret)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scopes", []string{"executions"}, "token scopes")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
