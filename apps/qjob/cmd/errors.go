package cmd

import (
	"os"

	"github.com/quatton/qjob/pkg/backend"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qlog"
)

// exitIfError prints err with guidance for its category and exits with status 1.
func exitIfError(logger *qlog.Logger, err error) {
	if err == nil {
		return
	}
	switch qerr.CodeOf(err) {
	case qerr.CodeUnsupportedScheduler:
		logger.Error(err.Error(), "supported", backend.Schedulers())
	case qerr.CodeNoBackend:
		logger.Error(err.Error(), "hint", "run 'qjob backends' to see which tools are expected")
	case qerr.CodeVersionParse:
		logger.Error(err.Error(), "hint", "check that 'sacct --version' prints a release like 'slurm 23.02.7'")
	default:
		logger.Error(err.Error())
	}
	os.Exit(1)
}
