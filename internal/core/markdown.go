package core

import (
	"io"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const linkRewritePriority = 999

var documentPathKey = parser.NewContextKey()

// WithDocumentPath returns a parser option carrying the source path of the
// document being parsed. The link rewrite transformer classifies this path.
func WithDocumentPath(path string) parser.ParseOption {
	ctx := parser.NewContext()
	ctx.Set(documentPathKey, path)
	return parser.WithContext(ctx)
}

func documentPath(pc parser.Context) string {
	if v, ok := pc.Get(documentPathKey).(string); ok {
		return v
	}
	return ""
}

type linkRewriteTransformer struct{}

func (linkRewriteTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	RewriteMarkdownTree(doc, Classify(documentPath(pc)))
}

// RewriteMarkdownTree rewrites the destination of every link node under n.
func RewriteMarkdownTree(n ast.Node, c Classification) {
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			link.Destination = []byte(rewriteDecoded(string(link.Destination), c))
		}
		return ast.WalkContinue, nil
	})
}

type linkRewrite struct{}

func (linkRewrite) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(linkRewriteTransformer{}, linkRewritePriority),
		),
	)
}

// LinkRewrite is a goldmark extension applying the link rewriter to every
// document before rendering. Pass the document path with WithDocumentPath.
func LinkRewrite() goldmark.Extender {
	return linkRewrite{}
}

// NewMarkdown returns a goldmark instance. withRewrite enables the
// pre-render link rewrite stage.
func NewMarkdown(withRewrite bool) goldmark.Markdown {
	exts := []goldmark.Extender{extension.GFM}
	if withRewrite {
		exts = append(exts, LinkRewrite())
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// Shared instances; goldmark keeps per-document state in the parse call.
var (
	rewritingMarkdown     goldmark.Markdown
	rewritingMarkdownOnce sync.Once
	plainMarkdown         goldmark.Markdown
	plainMarkdownOnce     sync.Once
)

func markdownFor(withRewrite bool) goldmark.Markdown {
	if withRewrite {
		rewritingMarkdownOnce.Do(func() { rewritingMarkdown = NewMarkdown(true) })
		return rewritingMarkdown
	}
	plainMarkdownOnce.Do(func() { plainMarkdown = NewMarkdown(false) })
	return plainMarkdown
}

// RenderMarkdown renders src to HTML with the pre-render stage applied.
func RenderMarkdown(path string, src []byte, w io.Writer) error {
	return markdownFor(true).Convert(src, w, WithDocumentPath(path))
}
