package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runWatch(args []string) error {
	fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	out := fs.String("out", "", "output directory (default: render.out_dir from srdlinks.yaml)")
	stage := fs.String("stage", "markdown", "where links are rewritten: markdown, html or both")
	debounce := fs.Duration("debounce", 200*time.Millisecond, "quiet period before a changed file is rendered")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st, err := core.ParseStage(*stage)
	if err != nil {
		return err
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

	w, err := core.NewWatcher(*vault, core.WatchOptions{
		OutDir:   outDir,
		Stage:    st,
		Debounce: *debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
