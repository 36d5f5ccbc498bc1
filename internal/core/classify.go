package core

import (
	"regexp"
	"strings"
)

const (
	// CorpusRouteRoot is the URL prefix under which corpus documents are published.
	CorpusRouteRoot = "/letl/srd"

	corpusMarker      = "LnL-SRD"
	corpusMarkerAlias = "lnlsrd"
)

var originFolderPattern = regexp.MustCompile(`(?i)LnL-SRD/([^/]+)/`)

// Classification describes whether a document belongs to the relocated corpus
// and which corpus sub-folder it came from.
type Classification struct {
	Relocated    bool
	OriginFolder string // lowercase, "" at the corpus root or when undetermined
}

// Classify derives a Classification from a document's source path.
// Both "/" and "\" separators are accepted. Every input yields a result.
func Classify(path string) Classification {
	p := normalizeSeparators(path)
	if !isCorpusPath(p) {
		return Classification{}
	}
	c := Classification{Relocated: true}
	if m := originFolderPattern.FindStringSubmatch(p); m != nil {
		c.OriginFolder = strings.ToLower(m[1])
	}
	return c
}

// ClassifyEntryID classifies a corpus entry identified by its id relative to
// the corpus root, e.g. "loitsut/8_piirin_loitsut".
// An id with a single segment sits at the corpus root.
func ClassifyEntryID(id string) Classification {
	parts := strings.Split(normalizeSeparators(id), "/")
	c := Classification{Relocated: true}
	if len(parts) > 1 {
		c.OriginFolder = strings.ToLower(parts[0])
	}
	return c
}

// DocumentRoute returns the published URL path of a source document.
// Example: "LnL-SRD/Loitsut/8_piirin_loitsut.md" → "/letl/srd/loitsut/8_piirin_loitsut"
func DocumentRoute(path string) string {
	p := strings.Trim(normalizeSeparators(path), "/")
	if strings.HasSuffix(strings.ToLower(p), ".md") {
		p = p[:len(p)-3]
	}
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		if isMarkerSegment(seg) {
			rest := strings.Join(segs[i+1:], "/")
			return CorpusRouteRoot + "/" + strings.ToLower(rest)
		}
	}
	return "/" + strings.ToLower(p)
}

func normalizeSeparators(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// isCorpusPath reports corpus membership. A substring match on either marker
// is accepted, as is a path component equal to the marker in any case.
func isCorpusPath(p string) bool {
	if strings.Contains(p, corpusMarker) || strings.Contains(p, corpusMarkerAlias) {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if strings.EqualFold(seg, corpusMarker) {
			return true
		}
	}
	return false
}

func isMarkerSegment(seg string) bool {
	return strings.EqualFold(seg, corpusMarker) || seg == corpusMarkerAlias
}
