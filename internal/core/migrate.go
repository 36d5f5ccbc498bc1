package core

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MigrateOptions controls the migrate operation.
type MigrateOptions struct {
	DryRun bool
	Files  []string // limit to these source files
	Logger *zap.Logger
}

// RewrittenLink reports a single link rewritten in a source file.
type RewrittenLink struct {
	File      string
	Line      int
	OldTarget string
	NewTarget string
}

// MigrateResult reports the outcome of the migrate operation.
type MigrateResult struct {
	Rewritten []RewrittenLink
}

// Migrate rewrites link destinations in the vault's markdown sources so they
// point at their published routes. It scans files directly (no index needed).
func Migrate(vaultPath string, opts MigrateOptions) (*MigrateResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	files, err := vaultFiles(vaultPath, cfg)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}

	var fileScope map[string]bool
	if len(opts.Files) > 0 {
		fileScope = make(map[string]bool, len(opts.Files))
		for _, f := range opts.Files {
			np := NormalizePath(f)
			if !fileSet[np] {
				return nil, fmt.Errorf("file not found or excluded: %s", f)
			}
			fileScope[np] = true
		}
	}

	result := &MigrateResult{}
	var rewrites []fileRewrite

	for _, sourcePath := range files {
		if fileScope != nil && !fileScope[sourcePath] {
			continue
		}
		content, err := os.ReadFile(filepath.Join(vaultPath, sourcePath))
		if err != nil {
			return nil, err
		}
		newContent, applied := applyLineRewrites(string(content), migrateEntries(sourcePath, string(content)))
		for _, re := range applied {
			result.Rewritten = append(result.Rewritten, RewrittenLink{
				File:      re.sourcePath,
				Line:      re.lineStart,
				OldTarget: re.oldTarget,
				NewTarget: re.newTarget,
			})
		}
		if len(applied) > 0 {
			rewrites = append(rewrites, fileRewrite{path: sourcePath, content: []byte(newContent)})
			log.Debug("links to rewrite", zap.String("file", sourcePath), zap.Int("count", len(applied)))
		}
	}

	if opts.DryRun || len(rewrites) == 0 {
		return result, nil
	}

	if err := applyFileRewrites(vaultPath, rewrites); err != nil {
		return nil, fmt.Errorf("rewrite files: %w", err)
	}
	log.Info("migrated links", zap.Int("files", len(rewrites)), zap.Int("links", len(result.Rewritten)))
	return result, nil
}

// migrateEntries computes the rewrites for one document's source text.
func migrateEntries(sourcePath, content string) []rewriteEntry {
	c := Classify(sourcePath)
	var out []rewriteEntry
	for _, lo := range parseLinks(content) {
		newTarget := rewriteEscaped(lo.target, c)
		if newTarget == lo.target {
			continue
		}
		out = append(out, rewriteEntry{
			rawLink:    lo.rawLink,
			linkType:   lo.linkType,
			lineStart:  lo.lineStart,
			sourcePath: sourcePath,
			oldTarget:  lo.target,
			newTarget:  newTarget,
			newRawLink: rewriteRawLink(lo.rawLink, lo.linkType, lo.target, newTarget),
		})
	}
	return out
}

// MigrateSource returns content with every link destination rewritten for
// the document at sourcePath.
func MigrateSource(sourcePath, content string) string {
	out, _ := applyLineRewrites(content, migrateEntries(sourcePath, content))
	return out
}
