package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runMigrate(args []string) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	format := fs.String("format", "text", "output format (json or text)")
	dryRun := fs.Bool("dry-run", false, "show what would be rewritten without making changes")
	files := fs.StringArray("file", nil, "file to migrate (can be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	_, logger, err := setup(*vault)
	if err != nil {
		return err
	}
	defer logger.Sync()

	result, err := core.Migrate(*vault, core.MigrateOptions{
		DryRun: *dryRun,
		Files:  *files,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		if err := printMigrateJSON(os.Stdout, result); err != nil {
			return err
		}
	default:
		printMigrateText(os.Stdout, result)
	}
	if !*dryRun && len(result.Rewritten) > 0 {
		fmt.Fprintln(os.Stderr, "hint: run 'srdlinks build' to create or update the index")
	}
	return nil
}
