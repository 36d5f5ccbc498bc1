package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var linkOccurCmp = cmp.AllowUnexported(linkOccur{})

func TestParseInlineLink(t *testing.T) {
	links := parseLinks("See [Antimaaginen alue](Antimaaginen_alue) now.")
	want := []linkOccur{{
		target:    "Antimaaginen_alue",
		linkType:  linkTypeInline,
		rawLink:   "[Antimaaginen alue](Antimaaginen_alue)",
		lineStart: 1,
	}}
	if diff := cmp.Diff(want, links, linkOccurCmp); diff != "" {
		t.Errorf("parseLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMultipleLinksPerLine(t *testing.T) {
	links := parseLinks("[a](A) and [b](https://example.org) and [c](#c)")
	var targets []string
	for _, l := range links {
		targets = append(targets, l.target)
	}
	if diff := cmp.Diff([]string{"A", "https://example.org", "#c"}, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLinkTitleAndAngleBrackets(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`[a](Target "Title")`, "Target"},
		{`[a](<Target With Space>)`, "Target With Space"},
		{`[a]( Target )`, "Target"},
	}
	for _, tt := range tests {
		links := parseLinks(tt.line)
		if len(links) != 1 {
			t.Fatalf("parseLinks(%q): got %d links, want 1", tt.line, len(links))
		}
		if links[0].target != tt.want {
			t.Errorf("parseLinks(%q) target = %q, want %q", tt.line, links[0].target, tt.want)
		}
	}
}

func TestParseSkipsImages(t *testing.T) {
	links := parseLinks("![Kuva](Kuva.png) [Linkki](Kohde)")
	if len(links) != 1 || links[0].target != "Kohde" {
		t.Errorf("parseLinks = %+v, want only Kohde", links)
	}
}

func TestParseNestedBracket(t *testing.T) {
	links := parseLinks("[outer [inner](Inner)")
	if len(links) != 1 || links[0].rawLink != "[inner](Inner)" {
		t.Errorf("parseLinks = %+v, want [inner](Inner)", links)
	}
}

func TestParseCodeExcluded(t *testing.T) {
	content := "`[code](Code)` [real](Real)\n```\n[fenced](Fenced)\n```\n~~~\n[tilde](Tilde)\n~~~\n"
	links := parseLinks(content)
	if len(links) != 1 || links[0].target != "Real" {
		t.Errorf("parseLinks = %+v, want only Real", links)
	}
}

func TestParseFrontmatterSkipped(t *testing.T) {
	content := "---\nlink: \"[x](Frontmatter)\"\n---\n[y](Body)\n"
	links := parseLinks(content)
	if len(links) != 1 || links[0].target != "Body" || links[0].lineStart != 4 {
		t.Errorf("parseLinks = %+v, want Body on line 4", links)
	}
}

func TestParseDefinition(t *testing.T) {
	content := "Valitse [loitsut][loitsut].\n\n[loitsut]: ../Loitsut/8_piirin_loitsut \"Loitsut\"\n"
	links := parseLinks(content)
	want := []linkOccur{{
		target:    "../Loitsut/8_piirin_loitsut",
		linkType:  linkTypeDefinition,
		rawLink:   "[loitsut]: ../Loitsut/8_piirin_loitsut \"Loitsut\"",
		lineStart: 3,
	}}
	if diff := cmp.Diff(want, links, linkOccurCmp); diff != "" {
		t.Errorf("parseLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefinitionRejects(t *testing.T) {
	lines := []string{
		"    [indented]: Code",
		"[^note]: Footnote text",
		"[]: Empty",
		"[label]:",
	}
	for _, line := range lines {
		if _, ok := parseDefinition(line, maskInlineCode(line), 1); ok {
			t.Errorf("parseDefinition(%q) accepted", line)
		}
	}
}

func TestParseLineNumbers(t *testing.T) {
	links := parseLinks("# Otsikko\n\n[a](A)\n\n[b](B)\n")
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].lineStart != 3 || links[1].lineStart != 5 {
		t.Errorf("lines = %d, %d; want 3, 5", links[0].lineStart, links[1].lineStart)
	}
}

func TestParseInlineCodeInLinkText(t *testing.T) {
	line := "See [`Loitsu` list](Antimaaginen_alue) and `[x](X)`."
	links := parseLinks(line)
	want := []linkOccur{{
		target:    "Antimaaginen_alue",
		linkType:  linkTypeInline,
		rawLink:   "[`Loitsu` list](Antimaaginen_alue)",
		lineStart: 1,
	}}
	if diff := cmp.Diff(want, links, linkOccurCmp); diff != "" {
		t.Errorf("parseLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFenceClosedBySameMarker(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"backticks inside tilde fence", "~~~\n```\n[in](In)\n~~~\n[out](Out)\n", []string{"Out"}},
		{"tildes inside backtick fence", "```\n~~~\n[in](In)\n```\n[out](Out)\n", []string{"Out"}},
		{"shorter run does not close", "````\n```\n[in](In)\n````\n[out](Out)\n", []string{"Out"}},
		{"longer run closes", "```\n[in](In)\n`````\n[out](Out)\n", []string{"Out"}},
		{"closing run with info string", "```\n```go\n[in](In)\n```\n[out](Out)\n", []string{"Out"}},
		{"backtick in info string", "``` a`b\n[out](Out)\n", []string{"Out"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range parseLinks(tt.content) {
				got = append(got, l.target)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("targets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodeSpans(t *testing.T) {
	tests := []struct {
		line string
		want [][2]int
	}{
		{"plain", nil},
		{"`a` b", [][2]int{{0, 3}}},
		{"``a ` b`` c", [][2]int{{0, 9}}},
		{"`open [a](A)", nil},
		{"`` x ` [a](A)", nil},
		{"`a` `b`", [][2]int{{0, 3}, {4, 7}}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, codeSpans(tt.line)); diff != "" {
			t.Errorf("codeSpans(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestParseUnclosedBacktickIsLiteral(t *testing.T) {
	links := parseLinks("a ` b [real](Real)")
	if len(links) != 1 || links[0].target != "Real" {
		t.Errorf("parseLinks = %+v, want Real", links)
	}
}
