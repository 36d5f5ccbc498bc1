package core

import "strings"

// resolveCorpusTarget maps a lowercased relative target onto the corpus route.
//
//	"antimaaginen_alue"  in loitsut → /letl/srd/loitsut/antimaaginen_alue
//	"loitsut/x"          anywhere   → /letl/srd/loitsut/x
//	"../hahmonluonti/x"  in loitsut → /letl/srd/hahmonluonti/x
func resolveCorpusTarget(target, folder string) string {
	path, suffix := splitURLSuffix(target)
	if hasDotSegment(path) {
		return resolveDotSegments(path, folder) + suffix
	}
	if folder != "" && !strings.Contains(target, "/") {
		return CorpusRouteRoot + "/" + folder + "/" + target
	}
	return CorpusRouteRoot + "/" + target
}

// resolveDotSegments resolves "." and ".." with a segment stack. Paths that
// start with a dot segment are relative to the origin folder, all others to
// the corpus root. The stack never pops above the corpus root.
func resolveDotSegments(path, folder string) string {
	segs := strings.Split(path, "/")
	var stack []string
	if folder != "" && (segs[0] == "." || segs[0] == "..") {
		stack = append(stack, folder)
	}
	for _, seg := range segs {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	out := CorpusRouteRoot + "/" + strings.Join(stack, "/")
	if len(stack) > 0 && strings.HasSuffix(path, "/") {
		out += "/"
	}
	return out
}

func hasDotSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// splitURLSuffix splits "path?query#frag" into ("path", "?query#frag").
func splitURLSuffix(target string) (string, string) {
	if idx := strings.IndexAny(target, "?#"); idx >= 0 {
		return target[:idx], target[idx:]
	}
	return target, ""
}
