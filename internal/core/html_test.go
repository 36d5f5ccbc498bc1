package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestRewriteHTML(t *testing.T) {
	in := `<p><a href="Antimaaginen_alue">A</a> <a href="#alku">B</a> <img src="Kuva.png"></p>`
	var buf bytes.Buffer
	require.NoError(t, RewriteHTML("LnL-SRD/Loitsut/8_piirin_loitsut.md", strings.NewReader(in), &buf))

	got := buf.String()
	assert.Contains(t, got, `<a href="/letl/srd/loitsut/antimaaginen_alue">A</a>`)
	assert.Contains(t, got, `<a href="#alku">B</a>`)
	assert.Contains(t, got, `<img src="Kuva.png"/>`)
}

func TestRewriteHTMLPercentEscaped(t *testing.T) {
	in := `<a href="%C3%84%C3%A4net">A</a><a href="https://example.org/%C3%84">B</a>`
	var buf bytes.Buffer
	require.NoError(t, RewriteHTML("LnL-SRD/Loitsut/8_piirin_loitsut.md", strings.NewReader(in), &buf))

	assert.Equal(t, `<a href="/letl/srd/loitsut/%C3%A4%C3%A4net">A</a><a href="https://example.org/%C3%84">B</a>`, buf.String())
}

func TestRewriteHTMLAnchorWithoutHref(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RewriteHTML("LnL-SRD/a.md", strings.NewReader(`<a name="x">X</a>`), &buf))
	assert.Equal(t, `<a name="x">X</a>`, buf.String())
}

func TestRewriteHTMLTreeNested(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div><ul><li><a href="Loitsut/A">A</a></li></ul><link href="Style.css"></div>`))
	require.NoError(t, err)
	RewriteHTMLTree(doc, Classification{Relocated: true})

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, doc))
	assert.Contains(t, buf.String(), `href="/letl/srd/loitsut/a"`)
	assert.Contains(t, buf.String(), `href="Style.css"`)
}

// The markdown and HTML stages must agree on every (document, target) pair.
func TestStagesAgree(t *testing.T) {
	docs := []string{
		"LnL-SRD/Loitsut/8_piirin_loitsut.md",
		"LnL-SRD/readme.md",
		`LnL-SRD\Hahmonluonti\Vaiheet.md`,
		"src/blog/post.md",
	}
	targets := []string{
		"Antimaaginen_alue",
		"Loitsut/8_piirin_loitsut",
		"../Hahmonluonti/Vaiheet#Pisteet",
		"./Sisar",
		"/LETL/SRD/Readme",
		"https://example.org/Path",
		"#Alku",
		"Saannot.pdf",
		"Some/Path?Sivu=2",
		"Äänet",
		"%C3%84%C3%A4net",
		"/LETL/SRD/Äänet",
	}
	for _, doc := range docs {
		for _, target := range targets {
			src := []byte(fmt.Sprintf("[x](%s)\n", target))

			var mdOut bytes.Buffer
			require.NoError(t, RenderDocument(doc, src, StageMarkdown, &mdOut))
			var htmlOut bytes.Buffer
			require.NoError(t, RenderDocument(doc, src, StageHTML, &htmlOut))

			assert.Equal(t, renderedHrefs(t, mdOut.Bytes()), renderedHrefs(t, htmlOut.Bytes()), "%s: %s", doc, target)
		}
	}
}

// Running both stages must equal a single pass: the pipeline never
// re-prefixes a link the markdown stage already relocated.
func TestBothStagesEqualSinglePass(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "testdata", "srd", "LnL-SRD", "Loitsut", "8_piirin_loitsut.md"))
	require.NoError(t, err)
	path := "LnL-SRD/Loitsut/8_piirin_loitsut.md"

	var single, both bytes.Buffer
	require.NoError(t, RenderDocument(path, src, StageMarkdown, &single))
	require.NoError(t, RenderDocument(path, src, StageBoth, &both))

	assert.Equal(t, renderedHrefs(t, single.Bytes()), renderedHrefs(t, both.Bytes()))
	for _, href := range renderedHrefs(t, both.Bytes()) {
		assert.NotContains(t, href, CorpusRouteRoot+CorpusRouteRoot)
	}
}

func TestRenderDocumentInvalidStage(t *testing.T) {
	err := RenderDocument("a.md", []byte("x"), Stage("remark"), &bytes.Buffer{})
	assert.Error(t, err)
}
