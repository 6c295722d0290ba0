package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/qapi/config"
	"github.com/quatton/qjob/pkg/qauth"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the job API",
	Long: `Mint an HS256 token signed with QJOB_API_SECRET and print it to stdout.

Example:
  export QJOB_API_SECRET=...
  curl -H "Authorization: Bearer $(qjob token --subject ci)" \
    localhost:3000/api/schedulers/slurm/jobs?ids=1234567`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envCfg, err := config.ValidateEnv(GetLogger(cmd).Logger)
		if err != nil {
			return err
		}
		if !envCfg.AuthEnabled() {
			return errors.New("QJOB_API_SECRET is not set")
		}

		token, err := qauth.IssueToken([]byte(envCfg.APISecret), tokenSubject, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)

		expires, err := tokenExpiry(token)
		if err != nil {
			return err
		}
		GetLogger(cmd).Info("issued token", "subject", tokenSubject, "expires", expires)
		return nil
	},
}

// tokenExpiry reads the exp claim back out of a minted token.
func tokenExpiry(token string) (string, error) {
	claims, err := qauth.ParseTokenClaims(token)
	if err != nil {
		return "", err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "", err
	}
	if exp == nil {
		return "never", nil
	}
	return exp.UTC().Format(time.RFC3339), nil
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "who the token is for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime (0 never expires)")
	tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
