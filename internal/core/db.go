package core

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	dataDirName = ".srdlinks"
	dbFileName  = "index.sqlite"
)

// dbExecer is satisfied by both *sql.DB and *sql.Tx.
type dbExecer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func dbPath(vaultPath string) string {
	return filepath.Join(vaultPath, dataDirName, dbFileName)
}

func ensureDataDir(vaultPath string) (string, error) {
	dir := filepath.Join(vaultPath, dataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func openDBAt(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s", path))
}

// openIndex opens an existing index, failing if build has not been run.
func openIndex(vaultPath string) (*sql.DB, error) {
	dbp := dbPath(vaultPath)
	if _, err := os.Stat(dbp); os.IsNotExist(err) {
		return nil, fmt.Errorf("index not found: run 'srdlinks build' first")
	}
	return openDBAt(dbp)
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id            INTEGER PRIMARY KEY,
			path          TEXT NOT NULL UNIQUE,
			route         TEXT NOT NULL,
			relocated     INTEGER NOT NULL DEFAULT 0,
			origin_folder TEXT NOT NULL DEFAULT '',
			mtime         INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_route ON documents(route);`,
		`CREATE TABLE IF NOT EXISTS links (
			id         INTEGER PRIMARY KEY,
			source_id  INTEGER NOT NULL,
			kind       TEXT NOT NULL,
			link_type  TEXT NOT NULL,
			raw_target TEXT NOT NULL,
			target     TEXT NOT NULL,
			line_start INTEGER,
			FOREIGN KEY(source_id) REFERENCES documents(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id);`,
		`CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func insertDocument(db dbExecer, path string, c Classification, mtime int64) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO documents (path, route, relocated, origin_folder, mtime)
		 VALUES (?, ?, ?, ?, ?)`,
		path, DocumentRoute(path), boolToInt(c.Relocated), c.OriginFolder, mtime,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertLink(db dbExecer, sourceID int64, kind LinkKind, linkType, rawTarget, target string, lineStart int) error {
	_, err := db.Exec(
		`INSERT INTO links (source_id, kind, link_type, raw_target, target, line_start)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sourceID, string(kind), linkType, rawTarget, target, lineStart,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
