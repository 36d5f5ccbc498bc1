package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runRewrite(args []string) error {
	fs := pflag.NewFlagSet("rewrite", pflag.ContinueOnError)
	from := fs.String("from", "", "source document path")
	link := fs.String("link", "", "link target as authored")
	format := fs.String("format", "text", "output format (json or text)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *from == "" {
		return fmt.Errorf("--from is required")
	}
	if !fs.Changed("link") {
		return fmt.Errorf("--link is required")
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	c := core.Classify(*from)
	r := rewriteOutput{
		Kind:   core.KindOf(*link),
		Target: *link,
		Result: core.RewriteTarget(*link, c),
	}

	switch *format {
	case "json":
		return printRewriteJSON(os.Stdout, r)
	default:
		return printRewriteText(os.Stdout, r)
	}
}
