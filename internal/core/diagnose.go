package core

import (
	"fmt"
	"sort"
	"strings"
)

// DiagnoseOptions controls which fields to return.
type DiagnoseOptions struct {
	Fields []string // nil/empty = all
}

// BrokenLink is a rewritten corpus link whose route matches no document.
type BrokenLink struct {
	File   string
	Line   int
	Raw    string // target as authored
	Target string // rewritten target
}

// RouteConflict is a group of documents published under the same route.
type RouteConflict struct {
	Route string
	Paths []string // sorted
}

// DiagnoseResult contains diagnostic information about the indexed vault.
type DiagnoseResult struct {
	BrokenLinks    []BrokenLink    // sorted by file, line
	RouteConflicts []RouteConflict // sorted by route
}

// ValidDiagnoseFields lists the field names accepted by Diagnose.
var ValidDiagnoseFields = map[string]bool{
	"broken_links":    true,
	"route_conflicts": true,
}

// Diagnose reports corpus links that resolve to no document and documents
// sharing a route.
func Diagnose(vaultPath string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	for _, f := range opts.Fields {
		if !ValidDiagnoseFields[f] {
			return nil, fmt.Errorf("unknown diagnose field: %s", f)
		}
	}

	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	routes := make(map[string][]string)
	rows, err := db.Query(`SELECT route, path FROM documents ORDER BY route, path`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var route, path string
		if err := rows.Scan(&route, &path); err != nil {
			rows.Close()
			return nil, err
		}
		routes[route] = append(routes[route], path)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	result := &DiagnoseResult{}

	if isFieldActive("broken_links", opts.Fields) {
		rows, err := db.Query(`
			SELECT d.path, l.line_start, l.raw_target, l.target
			FROM links l
			JOIN documents d ON d.id = l.source_id
			WHERE l.kind IN ('absolute', 'relative')
			ORDER BY d.path, l.line_start, l.id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		for rows.Next() {
			var bl BrokenLink
			if err := rows.Scan(&bl.File, &bl.Line, &bl.Raw, &bl.Target); err != nil {
				return nil, err
			}
			// Routes outside the corpus belong to the host site.
			if !strings.HasPrefix(bl.Target, CorpusRouteRoot+"/") {
				continue
			}
			if _, ok := routes[linkRoute(bl.Target)]; !ok {
				result.BrokenLinks = append(result.BrokenLinks, bl)
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if isFieldActive("route_conflicts", opts.Fields) {
		keys := make([]string, 0, len(routes))
		for r := range routes {
			keys = append(keys, r)
		}
		sort.Strings(keys)
		for _, r := range keys {
			if len(routes[r]) > 1 {
				result.RouteConflicts = append(result.RouteConflicts, RouteConflict{Route: r, Paths: routes[r]})
			}
		}
	}

	return result, nil
}

// linkRoute strips query, fragment and trailing slash from a rewritten target.
func linkRoute(target string) string {
	path, _ := splitURLSuffix(target)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
