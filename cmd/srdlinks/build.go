package main

import (
	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runBuild(args []string) error {
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, logger, err := setup(*vault)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return core.Build(*vault, core.BuildOptions{Logger: logger})
}
