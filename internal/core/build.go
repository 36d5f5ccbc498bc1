package core

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// BuildOptions controls the build operation.
type BuildOptions struct {
	Logger *zap.Logger
}

// Build classifies every document of the vault, rewrites its links and
// stores the result in the index DB.
func Build(vaultPath string, opts BuildOptions) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return err
	}
	files, err := vaultFiles(vaultPath, cfg)
	if err != nil {
		return err
	}
	if _, err := ensureDataDir(vaultPath); err != nil {
		return err
	}

	tmpPath := dbPath(vaultPath) + ".tmp"
	_ = os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	db, err := openDBAt(tmpPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	linkCount := 0
	for _, rel := range files {
		fullPath := filepath.Join(vaultPath, rel)
		info, err := os.Stat(fullPath)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return err
		}

		c := Classify(rel)
		sourceID, err := insertDocument(tx, rel, c, info.ModTime().Unix())
		if err != nil {
			return fmt.Errorf("index %s: %w", rel, err)
		}
		for _, lo := range parseLinks(string(content)) {
			target := rewriteDecoded(lo.target, c)
			if err := insertLink(tx, sourceID, KindOf(lo.target), lo.linkType, lo.target, target, lo.lineStart); err != nil {
				return fmt.Errorf("index %s: %w", rel, err)
			}
			linkCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dbPath(vaultPath)); err != nil {
		return err
	}
	log.Info("index built", zap.Int("documents", len(files)), zap.Int("links", linkCount))
	return nil
}
