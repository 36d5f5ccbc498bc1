package main

import "github.com/myrrys/srdlinks/internal/core"

func runStats(args []string) error {
	return runReport("stats", args, core.ValidStatsFields,
		func(vault string, fields []string) (*core.StatsResult, error) {
			return core.Stats(vault, core.StatsOptions{Fields: fields})
		},
		printStatsJSON, printStatsText)
}
