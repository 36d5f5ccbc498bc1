package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/myrrys/srdlinks/internal/core"
)

// runReport runs a read-only report command (stats, diagnose) that takes
// --vault, --format and --fields, and prints its result in the chosen format.
func runReport[R any](
	name string,
	args []string,
	valid map[string]bool,
	report func(vault string, fields []string) (R, error),
	printJSON, printText func(io.Writer, R, []string) error,
) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	vault := fs.String("vault", ".", "vault root directory")
	format := fs.String("format", "text", "output format (json or text)")
	fields := fs.String("fields", "", "comma-separated fields to output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateFormat(*format); err != nil {
		return err
	}
	fieldList := parseFields(*fields)
	if err := validateFields(fieldList, valid, name); err != nil {
		return err
	}

	result, err := report(*vault, fieldList)
	if err != nil {
		return err
	}
	if *format == "json" {
		return printJSON(os.Stdout, result, fieldList)
	}
	return printText(os.Stdout, result, fieldList)
}

// parseFields splits a comma-separated field string into a slice.
// Returns nil for empty input.
func parseFields(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateFormat checks that format is "json" or "text".
func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format: %q (must be json or text)", format)
	}
	return nil
}

// validateFields checks that all fields are in the valid set.
// name is used in the error message (e.g. "stats", "diagnose").
func validateFields(fields []string, valid map[string]bool, name string) error {
	for _, f := range fields {
		if !valid[f] {
			return fmt.Errorf("unknown %s field: %s", name, f)
		}
	}
	return nil
}

// fieldSet returns a set of fields to show. If fields is nil/empty, all valid fields are shown.
func fieldSet(fields []string, valid map[string]bool) map[string]bool {
	if len(fields) == 0 {
		all := make(map[string]bool)
		for k := range valid {
			all[k] = true
		}
		return all
	}
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Classify output ---

type classifyJSON struct {
	Relocated    bool   `json:"relocated"`
	OriginFolder string `json:"origin_folder"`
	Route        string `json:"route,omitempty"`
}

func printClassifyJSON(w io.Writer, c core.Classification, route string) error {
	return writeJSON(w, classifyJSON{Relocated: c.Relocated, OriginFolder: c.OriginFolder, Route: route})
}

func printClassifyText(w io.Writer, c core.Classification, route string) error {
	fmt.Fprintf(w, "relocated: %v\n", c.Relocated)
	if c.OriginFolder != "" {
		fmt.Fprintf(w, "origin_folder: %s\n", c.OriginFolder)
	}
	if route != "" {
		fmt.Fprintf(w, "route: %s\n", route)
	}
	return nil
}

// --- Rewrite output ---

type rewriteOutput struct {
	Kind   core.LinkKind `json:"kind"`
	Target string        `json:"target"`
	Result string        `json:"result"`
}

func printRewriteJSON(w io.Writer, r rewriteOutput) error {
	return writeJSON(w, r)
}

func printRewriteText(w io.Writer, r rewriteOutput) error {
	fmt.Fprintf(w, "kind: %s\n", r.Kind)
	fmt.Fprintf(w, "target: %s\n", r.Target)
	fmt.Fprintf(w, "result: %s\n", r.Result)
	return nil
}

// --- Migrate output ---

type migrateJSONLink struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	OldTarget string `json:"old"`
	NewTarget string `json:"new"`
}

func printMigrateJSON(w io.Writer, r *core.MigrateResult) error {
	links := make([]migrateJSONLink, len(r.Rewritten))
	for i, l := range r.Rewritten {
		links[i] = migrateJSONLink{File: l.File, Line: l.Line, OldTarget: l.OldTarget, NewTarget: l.NewTarget}
	}
	return writeJSON(w, map[string]any{"rewritten": links})
}

func printMigrateText(w io.Writer, r *core.MigrateResult) {
	if len(r.Rewritten) == 0 {
		return
	}
	fmt.Fprintln(w, "rewritten:")
	for _, l := range r.Rewritten {
		fmt.Fprintf(w, "- file: %s:%d\n", l.File, l.Line)
		fmt.Fprintf(w, "  old: %s\n", l.OldTarget)
		fmt.Fprintf(w, "  new: %s\n", l.NewTarget)
	}
}

// --- Stats output ---

func printStatsJSON(w io.Writer, r *core.StatsResult, fields []string) error {
	show := fieldSet(fields, core.ValidStatsFields)
	m := make(map[string]any)
	if show["documents_total"] {
		m["documents_total"] = r.DocumentsTotal
	}
	if show["corpus_documents"] {
		m["corpus_documents"] = r.CorpusDocuments
	}
	if show["links_total"] {
		m["links_total"] = r.LinksTotal
	}
	if show["links_rewritten"] {
		m["links_rewritten"] = r.LinksRewritten
	}
	if show["links_by_kind"] {
		byKind := make(map[string]int, len(r.LinksByKind))
		for k, n := range r.LinksByKind {
			byKind[string(k)] = n
		}
		m["links_by_kind"] = byKind
	}
	return writeJSON(w, m)
}

func printStatsText(w io.Writer, r *core.StatsResult, fields []string) error {
	show := fieldSet(fields, core.ValidStatsFields)
	if show["documents_total"] {
		fmt.Fprintf(w, "documents_total: %d\n", r.DocumentsTotal)
	}
	if show["corpus_documents"] {
		fmt.Fprintf(w, "corpus_documents: %d\n", r.CorpusDocuments)
	}
	if show["links_total"] {
		fmt.Fprintf(w, "links_total: %d\n", r.LinksTotal)
	}
	if show["links_rewritten"] {
		fmt.Fprintf(w, "links_rewritten: %d\n", r.LinksRewritten)
	}
	if show["links_by_kind"] {
		fmt.Fprintln(w, "links_by_kind:")
		kinds := make([]string, 0, len(r.LinksByKind))
		for k := range r.LinksByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %s: %d\n", k, r.LinksByKind[core.LinkKind(k)])
		}
	}
	return nil
}

// --- Diagnose output ---

type diagnoseJSONBroken struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Target string `json:"target"`
}

type diagnoseJSONConflict struct {
	Route string   `json:"route"`
	Paths []string `json:"paths"`
}

func printDiagnoseJSON(w io.Writer, r *core.DiagnoseResult, fields []string) error {
	show := fieldSet(fields, core.ValidDiagnoseFields)
	m := make(map[string]any)
	if show["broken_links"] {
		broken := make([]diagnoseJSONBroken, len(r.BrokenLinks))
		for i, b := range r.BrokenLinks {
			broken[i] = diagnoseJSONBroken{File: b.File, Line: b.Line, Raw: b.Raw, Target: b.Target}
		}
		m["broken_links"] = broken
	}
	if show["route_conflicts"] {
		conflicts := make([]diagnoseJSONConflict, len(r.RouteConflicts))
		for i, c := range r.RouteConflicts {
			conflicts[i] = diagnoseJSONConflict{Route: c.Route, Paths: c.Paths}
		}
		m["route_conflicts"] = conflicts
	}
	return writeJSON(w, m)
}

func printDiagnoseText(w io.Writer, r *core.DiagnoseResult, fields []string) error {
	show := fieldSet(fields, core.ValidDiagnoseFields)
	if show["broken_links"] {
		fmt.Fprintln(w, "broken_links:")
		for _, b := range r.BrokenLinks {
			fmt.Fprintf(w, "- file: %s:%d\n", b.File, b.Line)
			fmt.Fprintf(w, "  raw: %s\n", b.Raw)
			fmt.Fprintf(w, "  target: %s\n", b.Target)
		}
	}
	if show["route_conflicts"] {
		fmt.Fprintln(w, "route_conflicts:")
		for _, c := range r.RouteConflicts {
			fmt.Fprintf(w, "- route: %s\n", c.Route)
			fmt.Fprintln(w, "  paths:")
			for _, p := range c.Paths {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
	}
	return nil
}

// --- Render output ---

type renderJSONDocument struct {
	Path   string `json:"path"`
	Route  string `json:"route"`
	Output string `json:"output"`
}

func printRenderJSON(w io.Writer, r *core.RenderResult) error {
	docs := make([]renderJSONDocument, len(r.Rendered))
	for i, d := range r.Rendered {
		docs[i] = renderJSONDocument{Path: d.Path, Route: d.Route, Output: d.Output}
	}
	return writeJSON(w, map[string]any{"rendered": docs})
}

func printRenderText(w io.Writer, r *core.RenderResult) {
	for _, d := range r.Rendered {
		fmt.Fprintf(w, "%s -> %s\n", d.Path, d.Route)
	}
}
