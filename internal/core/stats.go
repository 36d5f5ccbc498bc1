package core

import "fmt"

// StatsOptions controls which fields to return.
type StatsOptions struct {
	Fields []string // nil/empty = all
}

// StatsResult contains index statistics.
type StatsResult struct {
	DocumentsTotal  int
	CorpusDocuments int
	LinksTotal      int
	LinksRewritten  int
	LinksByKind     map[LinkKind]int
}

// ValidStatsFields lists the field names accepted by Stats.
var ValidStatsFields = map[string]bool{
	"documents_total":  true,
	"corpus_documents": true,
	"links_total":      true,
	"links_rewritten":  true,
	"links_by_kind":    true,
}

func validateStatsFields(fields []string) error {
	for _, f := range fields {
		if !ValidStatsFields[f] {
			return fmt.Errorf("unknown stats field: %s", f)
		}
	}
	return nil
}

// Stats returns aggregate statistics for the indexed vault.
func Stats(vaultPath string, opts StatsOptions) (*StatsResult, error) {
	if err := validateStatsFields(opts.Fields); err != nil {
		return nil, err
	}

	db, err := openIndex(vaultPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &StatsResult{}

	if isFieldActive("documents_total", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&result.DocumentsTotal); err != nil {
			return nil, err
		}
	}

	if isFieldActive("corpus_documents", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM documents WHERE relocated=1`).Scan(&result.CorpusDocuments); err != nil {
			return nil, err
		}
	}

	if isFieldActive("links_total", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&result.LinksTotal); err != nil {
			return nil, err
		}
	}

	if isFieldActive("links_rewritten", opts.Fields) {
		if err := db.QueryRow(`SELECT COUNT(*) FROM links WHERE target <> raw_target`).Scan(&result.LinksRewritten); err != nil {
			return nil, err
		}
	}

	if isFieldActive("links_by_kind", opts.Fields) {
		rows, err := db.Query(`SELECT kind, COUNT(*) FROM links GROUP BY kind ORDER BY kind`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		result.LinksByKind = make(map[LinkKind]int)
		for rows.Next() {
			var kind string
			var n int
			if err := rows.Scan(&kind, &n); err != nil {
				return nil, err
			}
			result.LinksByKind[LinkKind(kind)] = n
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return result, nil
}
