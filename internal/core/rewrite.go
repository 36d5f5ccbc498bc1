package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rewriteBackup holds original file content for rollback on failure.
type rewriteBackup struct {
	path    string
	content []byte
	perm    os.FileMode
}

// rewriteEntry holds information needed to rewrite a single link occurrence.
type rewriteEntry struct {
	rawLink    string
	linkType   string
	lineStart  int
	sourcePath string
	oldTarget  string
	newTarget  string
	newRawLink string
}

// rewriteRawLink replaces the destination of a raw link with newTarget.
// Only the part after "](" (inline) or "]:" (definition) is searched, so a
// link text equal to the destination is left alone.
func rewriteRawLink(rawLink, linkType, oldTarget, newTarget string) string {
	sep := "]("
	if linkType == linkTypeDefinition {
		sep = "]:"
	}
	idx := strings.Index(rawLink, sep)
	if idx < 0 {
		return rawLink
	}
	head := rawLink[:idx+len(sep)]
	tail := rawLink[idx+len(sep):]
	return head + strings.Replace(tail, oldTarget, newTarget, 1)
}

// replaceOutsideInlineCode replaces the first occurrence of old in line
// that does not start inside an inline code span. old may itself contain
// code spans. It reports whether a replacement was made.
func replaceOutsideInlineCode(line, old, new string) (string, bool) {
	spans := codeSpans(line)
	from := 0
	for {
		idx := strings.Index(line[from:], old)
		if idx < 0 {
			return line, false
		}
		idx += from
		inCode := false
		for _, sp := range spans {
			if idx >= sp[0] && idx < sp[1] {
				inCode = true
				from = sp[1]
				break
			}
		}
		if !inCode {
			return line[:idx] + new + line[idx+len(old):], true
		}
	}
}

// applyLineRewrites substitutes each entry's raw link on its line and
// returns the new content with the entries that were actually applied.
func applyLineRewrites(content string, entries []rewriteEntry) (string, []rewriteEntry) {
	lines := strings.Split(content, "\n")
	var applied []rewriteEntry
	for _, re := range entries {
		if re.lineStart < 1 || re.lineStart > len(lines) {
			continue
		}
		idx := re.lineStart - 1 // convert 1-based to 0-based
		line, ok := replaceOutsideInlineCode(lines[idx], re.rawLink, re.newRawLink)
		if !ok {
			continue
		}
		lines[idx] = line
		applied = append(applied, re)
	}
	return strings.Join(lines, "\n"), applied
}

// fileRewrite is the new content of one source file.
type fileRewrite struct {
	path    string // vault-relative
	content []byte
}

// writeFilePreservePerm writes data to path with the given permission bits.
// os.WriteFile applies umask on file creation, so os.Chmod is called to
// ensure the exact permission bits are set.
func writeFilePreservePerm(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

// writeSourceFile is replaced in tests to simulate failing writes.
var writeSourceFile = writeFilePreservePerm

// restoreBackups restores files to their original content (best-effort).
func restoreBackups(vaultPath string, backups []rewriteBackup) {
	for _, fb := range backups {
		_ = writeFilePreservePerm(filepath.Join(vaultPath, fb.path), fb.content, fb.perm)
	}
}

// applyFileRewrites writes the rewritten files in order. If a write fails,
// every file written so far, the failing one included, is restored
// (best-effort) and the write error is returned.
func applyFileRewrites(vaultPath string, rewrites []fileRewrite) error {
	// Phase 1: back up all originals before any writes.
	backups := make([]rewriteBackup, 0, len(rewrites))
	for _, fr := range rewrites {
		fullPath := filepath.Join(vaultPath, fr.path)
		info, err := os.Stat(fullPath)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return err
		}
		backups = append(backups, rewriteBackup{path: fr.path, content: content, perm: info.Mode().Perm()})
	}

	// Phase 2: write. A failed write may already have truncated the file.
	for i, fr := range rewrites {
		if err := writeSourceFile(filepath.Join(vaultPath, fr.path), fr.content, backups[i].perm); err != nil {
			restoreBackups(vaultPath, backups[:i+1])
			return fmt.Errorf("write %s: %w", fr.path, err)
		}
	}
	return nil
}
