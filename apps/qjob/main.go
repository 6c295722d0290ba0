package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/quatton/qjob/apps/qjob/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "qjob crashed: %v\n", r)
			if os.Getenv("QJOB_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(2)
		}
	}()

	cmd.Execute()
}
