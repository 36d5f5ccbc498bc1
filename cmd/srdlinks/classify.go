package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

func runClassify(args []string) error {
	fs := pflag.NewFlagSet("classify", pflag.ContinueOnError)
	path := fs.String("path", "", "document source path")
	entry := fs.String("entry", "", "corpus entry id (e.g. loitsut/8_piirin_loitsut)")
	format := fs.String("format", "text", "output format (json or text)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if (*path == "") == (*entry == "") {
		return fmt.Errorf("exactly one of --path or --entry is required")
	}
	if err := validateFormat(*format); err != nil {
		return err
	}

	var c core.Classification
	route := ""
	if *path != "" {
		c = core.Classify(*path)
		route = core.DocumentRoute(*path)
	} else {
		c = core.ClassifyEntryID(*entry)
	}

	switch *format {
	case "json":
		return printClassifyJSON(os.Stdout, c, route)
	default:
		return printClassifyText(os.Stdout, c, route)
	}
}
