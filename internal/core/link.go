package core

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/util"
)

// LinkKind is the shape of a link target as authored.
type LinkKind string

const (
	KindExternal LinkKind = "external"
	KindAnchor   LinkKind = "anchor"
	KindDownload LinkKind = "download"
	KindAbsolute LinkKind = "absolute"
	KindRelative LinkKind = "relative"
)

// LinkReference is a single hyperlink found in a document.
type LinkReference struct {
	Target string
}

// KindOf classifies a raw link target. Rules are checked in order.
func KindOf(target string) LinkKind {
	switch {
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		return KindExternal
	case strings.HasPrefix(target, "#"):
		return KindAnchor
	case strings.HasSuffix(target, ".pdf"):
		return KindDownload
	case strings.HasPrefix(target, "/"):
		return KindAbsolute
	}
	return KindRelative
}

// RewriteTarget returns the rewritten form of a single link target for a
// document with classification c.
//
// External, anchor and download targets are returned unchanged. Absolute
// targets are lowercased. Relative targets are lowercased and, for corpus
// documents, relocated under CorpusRouteRoot.
func RewriteTarget(target string, c Classification) string {
	switch KindOf(target) {
	case KindExternal, KindAnchor, KindDownload:
		return target
	case KindAbsolute:
		return strings.ToLower(target)
	}
	lower := strings.ToLower(target)
	if !c.Relocated {
		return lower
	}
	return resolveCorpusTarget(lower, c.OriginFolder)
}

// RewriteLinks rewrites every link in place.
func RewriteLinks(links []*LinkReference, c Classification) {
	for _, l := range links {
		if l == nil {
			continue
		}
		l.Target = RewriteTarget(l.Target, c)
	}
}

// rewriteDecoded rewrites the percent-decoded form of target, so that
// "%C3%84" and "Ä" lower-case alike. Targets the rewrite leaves unchanged,
// and targets that do not decode, keep their original encoding.
func rewriteDecoded(target string, c Classification) string {
	decoded, err := url.PathUnescape(target)
	if err != nil {
		decoded = target
	}
	out := RewriteTarget(decoded, c)
	if out == decoded {
		return target
	}
	return out
}

// rewriteEscaped is rewriteDecoded escaped the way goldmark escapes link
// destinations when rendering.
func rewriteEscaped(target string, c Classification) string {
	out := rewriteDecoded(target, c)
	if out == target {
		return target
	}
	return string(util.URLEscape([]byte(out), true))
}
