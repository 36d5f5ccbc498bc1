package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runRender(args []string) error {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	out := fs.String("out", "", "output directory (default: render.out_dir from srdlinks.yaml)")
	stage := fs.String("stage", "markdown", "where links are rewritten: markdown, html or both")
	workers := fs.Int("workers", 0, "documents rendered in parallel (default: render.workers or CPU count)")
	format := fs.String("format", "text", "output format (json or text)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateFormat(*format); err != nil {
		return err
	}
	st, err := core.ParseStage(*stage)
	if err != nil {
		return err
	}
	if *workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}

	cfg, logger, err := setup(*vault)
	if err != nil {
		return err
	}
	defer logger.Sync()

	outDir := firstNonEmpty(*out, cfg.Render.OutDir)
	if outDir == "" {
		return fmt.Errorf("--out is required when render.out_dir is not configured")
	}
	n := *workers
	if n == 0 {
		n = cfg.Render.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := core.Render(ctx, *vault, core.RenderOptions{
		OutDir:  outDir,
		Stage:   st,
		Workers: n,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return printRenderJSON(os.Stdout, result)
	default:
		printRenderText(os.Stdout, result)
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
