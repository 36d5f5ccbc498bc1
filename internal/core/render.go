package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage selects where in the render pipeline links are rewritten.
type Stage string

const (
	StageMarkdown Stage = "markdown" // goldmark AST, before HTML generation
	StageHTML     Stage = "html"     // anchor hrefs, after HTML generation
	StageBoth     Stage = "both"
)

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageMarkdown, StageHTML, StageBoth:
		return Stage(s), nil
	}
	return "", fmt.Errorf("invalid stage: %q (must be markdown, html or both)", s)
}

// RenderOptions controls the render operation.
type RenderOptions struct {
	OutDir  string
	Stage   Stage
	Workers int // <= 0 means runtime.NumCPU()
	Logger  *zap.Logger
}

// RenderedDocument reports one rendered document.
type RenderedDocument struct {
	Path   string // vault-relative source path
	Route  string
	Output string // written file
}

// RenderResult reports the outcome of the render operation.
type RenderResult struct {
	Rendered []RenderedDocument // in source path order
}

// RenderDocument renders one markdown document to HTML, rewriting its links
// at the given stage. Documents are independent; calls may run concurrently.
func RenderDocument(path string, src []byte, stage Stage, w io.Writer) error {
	switch stage {
	case StageMarkdown:
		return markdownFor(true).Convert(src, w, WithDocumentPath(path))
	case StageHTML, StageBoth:
		var buf bytes.Buffer
		if err := markdownFor(stage == StageBoth).Convert(src, &buf, WithDocumentPath(path)); err != nil {
			return err
		}
		return RewriteHTML(path, &buf, w)
	}
	return fmt.Errorf("invalid stage: %q", stage)
}

// Render renders every markdown document of the vault to
// <OutDir>/<route>.html.
func Render(ctx context.Context, vaultPath string, opts RenderOptions) (*RenderResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := ParseStage(string(opts.Stage)); err != nil {
		return nil, err
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	files, err := vaultFiles(vaultPath, cfg)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rendered := make([]RenderedDocument, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := renderFile(vaultPath, opts.OutDir, rel, opts.Stage)
			if err != nil {
				return fmt.Errorf("render %s: %w", rel, err)
			}
			log.Debug("rendered", zap.String("file", rel), zap.String("route", doc.Route))
			rendered[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("render complete", zap.Int("documents", len(rendered)), zap.String("stage", string(opts.Stage)))
	return &RenderResult{Rendered: rendered}, nil
}

// renderFile renders a single vault document and writes it below outDir.
func renderFile(vaultPath, outDir, rel string, stage Stage) (RenderedDocument, error) {
	src, err := os.ReadFile(filepath.Join(vaultPath, rel))
	if err != nil {
		return RenderedDocument{}, err
	}
	var buf bytes.Buffer
	if err := RenderDocument(rel, src, stage, &buf); err != nil {
		return RenderedDocument{}, err
	}

	route := DocumentRoute(rel)
	out := filepath.Join(outDir, filepath.FromSlash(route)+".html")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return RenderedDocument{}, err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return RenderedDocument{}, err
	}
	return RenderedDocument{Path: rel, Route: route, Output: out}, nil
}
