package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/qapi"
	"github.com/quatton/qjob/pkg/qapi/config"
	"github.com/quatton/qjob/pkg/qapi/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve job lookups over HTTP",
	Long: `Serve the job API on $PORT (default 3000).

Routes:
  GET /api/health
  GET /api/schedulers/{scheduler}/jobs?ids=1,2
  GET /api/reports/{reportId}    (when archiving is enabled)

When QJOB_API_SECRET is set, job and report routes require a bearer token
minted with 'qjob token'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		logger := GetLogger(cmd)

		envCfg, err := config.ValidateEnv(logger.Logger)
		if err != nil {
			return err
		}
		envCfg.Print(logger.Logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := newWiring(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		api := qapi.NewApi(services.NewServices(envCfg.APISecret, w.Service, w.Reports))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%s", envCfg.Port),
			Handler:           api.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "addr", srv.Addr, "docs", "/docs")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
