package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quatton/qjob/pkg/qauth"
	"github.com/quatton/qjob/pkg/qerr"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(oldWd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag of c and its subcommands, which cobra keeps between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestQuery_UnsupportedSchedulerWritesNothing(t *testing.T) {
	out, err := execute(t, "query", "--no-color", "--scheduler", "pbs", "123")
	require.Error(t, err)
	assert.True(t, qerr.IsCode(err, qerr.CodeUnsupportedScheduler))
	assert.Empty(t, out)
}

func TestQuery_InvalidConfig(t *testing.T) {
	_, err := execute(t, "query", "--threads", "0", "123")
	assert.True(t, qerr.IsCode(err, qerr.CodeConfig))

	_, err = execute(t, "query", "--threads", "1", "--log-level", "chatty", "123")
	assert.True(t, qerr.IsCode(err, qerr.CodeConfig))
}

func TestErrorLogger_HonorsNoColor(t *testing.T) {
	_, err := execute(t, "query", "--no-color", "--scheduler", "pbs", "123")
	require.Error(t, err)
	t.Cleanup(func() { noColor = false })

	var buf bytes.Buffer
	errorLogger(&buf).Error(err.Error())
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.True(t, strings.HasPrefix(buf.String(), "error: "))
}

func TestToken_PrintsVerifiableToken(t *testing.T) {
	secret := strings.Repeat("s", qauth.MinSecretLength)
	t.Setenv("QJOB_API_SECRET", secret)

	out, err := execute(t, "token", "--no-color", "--subject", "ci", "--ttl", "1h")
	require.NoError(t, err)

	token := strings.TrimSpace(out)
	claims, err := qauth.ValidateToken([]byte(secret), token)
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)

	expires, err := tokenExpiry(token)
	require.NoError(t, err)
	assert.Equal(t, claims.ExpiresAt.UTC().Format(time.RFC3339), expires)
}

func TestTokenExpiry_Never(t *testing.T) {
	token, err := qauth.IssueToken([]byte(strings.Repeat("s", qauth.MinSecretLength)), "ci", 0, time.Now())
	require.NoError(t, err)

	expires, err := tokenExpiry(token)
	require.NoError(t, err)
	assert.Equal(t, "never", expires)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "qjob "))
}
