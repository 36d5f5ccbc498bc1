package core

import "strings"

const (
	linkTypeInline     = "inline"
	linkTypeDefinition = "definition"
)

type linkOccur struct {
	target    string // destination as authored (title and <> stripped)
	linkType  string // "inline" or "definition"
	rawLink   string // exact source text containing the destination
	lineStart int
}

// parseLinks extracts inline markdown links and reference definitions from
// content. Images, fenced code, inline code and frontmatter are skipped.
// rawLink is always a substring of its source line.
func parseLinks(content string) []linkOccur {
	var out []linkOccur
	lines := strings.Split(content, "\n")

	startLine := 0
	if fmEnd := frontmatterEnd(lines); fmEnd > 0 {
		startLine = fmEnd + 1
	}

	fence := ""
	for i := startLine; i < len(lines); i++ {
		lineNum := i + 1 // 1-based
		trim := strings.TrimSpace(lines[i])
		if fence != "" {
			if closesFence(trim, fence) {
				fence = ""
			}
			continue
		}
		if m := fenceMarker(trim); m != "" {
			fence = m
			continue
		}
		masked := maskInlineCode(lines[i])
		if lo, ok := parseDefinition(lines[i], masked, lineNum); ok {
			out = append(out, lo)
			continue
		}
		out = append(out, parseInlineLinks(lines[i], masked, lineNum)...)
	}
	return out
}

// fenceMarker returns the backtick or tilde run opening a code fence, or "".
func fenceMarker(trim string) string {
	if !strings.HasPrefix(trim, "```") && !strings.HasPrefix(trim, "~~~") {
		return ""
	}
	n := 0
	for n < len(trim) && trim[n] == trim[0] {
		n++
	}
	// A backtick fence's info string cannot contain backticks.
	if trim[0] == '`' && strings.Contains(trim[n:], "`") {
		return ""
	}
	return trim[:n]
}

// closesFence reports whether trim closes a fence opened by marker: a run of
// the same character at least as long, with nothing after it.
func closesFence(trim, marker string) bool {
	run := strings.TrimRight(trim, string(marker[0]))
	return run == "" && len(trim) >= len(marker)
}

// codeSpans returns the byte ranges [start, end) of the inline code spans of
// line, backticks included. A backtick run is closed only by a run of the
// same length; an unclosed run is literal text.
func codeSpans(line string) [][2]int {
	var spans [][2]int
	i := 0
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		start := i
		for i < len(line) && line[i] == '`' {
			i++
		}
		n := i - start
		// An unclosed run is literal; scanning resumes after it.
		for j := i; j < len(line); {
			if line[j] != '`' {
				j++
				continue
			}
			k := j
			for k < len(line) && line[k] == '`' {
				k++
			}
			if k-j == n {
				spans = append(spans, [2]int{start, k})
				i = k
				break
			}
			j = k
		}
	}
	return spans
}

// maskInlineCode blanks the inline code spans of line. Byte offsets in the
// result match line.
func maskInlineCode(line string) string {
	spans := codeSpans(line)
	if len(spans) == 0 {
		return line
	}
	b := []byte(line)
	for _, sp := range spans {
		for k := sp[0]; k < sp[1]; k++ {
			b[k] = ' '
		}
	}
	return string(b)
}

// parseInlineLinks finds [text](dest) links on a single line. Brackets are
// located in masked (inline code blanked); text is cut from line.
func parseInlineLinks(line, masked string, lineNum int) []linkOccur {
	var out []linkOccur
	pos := 0
	for {
		open := strings.Index(masked[pos:], "[")
		if open == -1 {
			break
		}
		open += pos
		mid := strings.Index(masked[open:], "](")
		if mid == -1 {
			break
		}
		mid += open
		close := strings.Index(masked[mid+2:], ")")
		if close == -1 {
			break
		}
		close += mid + 2
		// A "[" inside the link text starts a nested link; rescan from it.
		if inner := strings.LastIndex(masked[open+1:mid], "["); inner >= 0 {
			pos = open + 1 + inner
			continue
		}
		isImage := open > 0 && masked[open-1] == '!'
		if !isImage {
			out = append(out, linkOccur{
				target:    destinationOf(line[mid+2 : close]),
				linkType:  linkTypeInline,
				rawLink:   line[open : close+1],
				lineStart: lineNum,
			})
		}
		pos = close + 1
	}
	return out
}

// parseDefinition parses a reference definition line: [label]: dest "title".
func parseDefinition(line, masked string, lineNum int) (linkOccur, bool) {
	indent := len(masked) - len(strings.TrimLeft(masked, " "))
	if indent > 3 {
		return linkOccur{}, false
	}
	rest := masked[indent:]
	if !strings.HasPrefix(rest, "[") || strings.HasPrefix(rest, "[^") {
		return linkOccur{}, false
	}
	end := strings.Index(rest, "]:")
	if end <= 1 {
		return linkOccur{}, false
	}
	dest := destinationOf(line[indent+end+2:])
	if dest == "" {
		return linkOccur{}, false
	}
	return linkOccur{
		target:    dest,
		linkType:  linkTypeDefinition,
		rawLink:   strings.TrimRight(line[indent:], " \t"),
		lineStart: lineNum,
	}, true
}

// destinationOf returns the link destination of the text between the
// parentheses of an inline link, dropping an optional title and angle brackets.
func destinationOf(inner string) string {
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "<") {
		if end := strings.Index(inner, ">"); end > 0 {
			return inner[1:end]
		}
	}
	if idx := strings.IndexAny(inner, " \t"); idx >= 0 {
		return inner[:idx]
	}
	return inner
}

// frontmatterEnd returns the line index of the closing "---" of frontmatter.
// Returns -1 if no valid frontmatter is found.
func frontmatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i
		}
	}
	return -1
}
