package main

import "github.com/myrrys/srdlinks/internal/core"

func runDiagnose(args []string) error {
	return runReport("diagnose", args, core.ValidDiagnoseFields,
		func(vault string, fields []string) (*core.DiagnoseResult, error) {
			return core.Diagnose(vault, core.DiagnoseOptions{Fields: fields})
		},
		printDiagnoseJSON, printDiagnoseText)
}
