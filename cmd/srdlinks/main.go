package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "classify":
		err = runClassify(os.Args[2:])
	case "rewrite":
		err = runRewrite(os.Args[2:])
	case "migrate":
		err = runMigrate(os.Args[2:])
	case "build":
		err = runBuild(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "diagnose":
		err = runDiagnose(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "--version":
		printVersion(os.Stdout)
		return
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion(w io.Writer) {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	fmt.Fprintf(w, "srdlinks version %s\n", v)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: srdlinks <command> [options]

Link Commands:
  classify   Show how a document path is classified
  rewrite    Rewrite a single link target for a document
  migrate    Rewrite link destinations in markdown sources on disk

Index Commands:
  build      Build the link index from the vault
  stats      Show index statistics
  diagnose   Show broken corpus links and route conflicts

Render Commands:
  render     Render the vault to HTML with links rewritten
  watch      Re-render documents as they change

Run 'srdlinks <command> --help' for command-specific help.
Use 'srdlinks --version' for version information.
`)
}
