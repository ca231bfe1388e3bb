package main

import (
	"os"

	"github.com/compozy/ctxkeeper/cli"
	"github.com/compozy/ctxkeeper/cli/helpers"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		helpers.OutputError(os.Stderr, err, helpers.OutputFormatText)
		os.Exit(1)
	}
}
