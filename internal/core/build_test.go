package core

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myrrys/srdlinks/internal/testutil"
)

// --- Test helpers ---

type documentRow struct {
	path         string
	route        string
	relocated    bool
	originFolder string
}

type linkRow struct {
	sourcePath string
	kind       string
	linkType   string
	rawTarget  string
	target     string
	lineStart  int
}

func copyVault(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join("..", "..", "testdata", name)
	dst := filepath.Join(t.TempDir(), "vault")
	if err := testutil.CopyDir(root, dst); err != nil {
		t.Fatalf("copy vault: %v", err)
	}
	return dst
}

func writeFile(t *testing.T, vault, rel, content string) {
	t.Helper()
	full := filepath.Join(vault, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openTestDB(t *testing.T, dbp string) *sql.DB {
	t.Helper()
	db, err := openDBAt(dbp)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func queryDocuments(t *testing.T, dbp string) []documentRow {
	t.Helper()
	db := openTestDB(t, dbp)
	defer db.Close()
	rows, err := db.Query(`SELECT path, route, relocated, origin_folder FROM documents ORDER BY path`)
	require.NoError(t, err)
	defer rows.Close()
	var out []documentRow
	for rows.Next() {
		var r documentRow
		var relocated int
		require.NoError(t, rows.Scan(&r.path, &r.route, &relocated, &r.originFolder))
		r.relocated = relocated == 1
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

func queryLinks(t *testing.T, dbp, sourcePath string) []linkRow {
	t.Helper()
	db := openTestDB(t, dbp)
	defer db.Close()
	rows, err := db.Query(`
		SELECT d.path, l.kind, l.link_type, l.raw_target, l.target, l.line_start
		FROM links l JOIN documents d ON d.id = l.source_id
		WHERE d.path = ?
		ORDER BY l.id`, sourcePath)
	require.NoError(t, err)
	defer rows.Close()
	var out []linkRow
	for rows.Next() {
		var r linkRow
		require.NoError(t, rows.Scan(&r.sourcePath, &r.kind, &r.linkType, &r.rawTarget, &r.target, &r.lineStart))
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

// --- Tests ---

func TestBuildCreatesDB(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))
	_, err := os.Stat(dbPath(vault))
	assert.NoError(t, err)
	_, err = os.Stat(dbPath(vault) + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp db should be removed")
}

func TestBuildEmptyVaultCreatesDB(t *testing.T) {
	vault := t.TempDir()
	require.NoError(t, Build(vault, BuildOptions{}))
	assert.Empty(t, queryDocuments(t, dbPath(vault)))
}

func TestBuildDocuments(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))

	want := []documentRow{
		{"LnL-SRD/Hahmonluonti/Vaiheet.md", "/letl/srd/hahmonluonti/vaiheet", true, "hahmonluonti"},
		{"LnL-SRD/Loitsut/8_piirin_loitsut.md", "/letl/srd/loitsut/8_piirin_loitsut", true, "loitsut"},
		{"LnL-SRD/Loitsut/Antimaaginen_alue.md", "/letl/srd/loitsut/antimaaginen_alue", true, "loitsut"},
		{"LnL-SRD/readme.md", "/letl/srd/readme", true, ""},
		{"blog/post.md", "/blog/post", false, ""},
	}
	assert.Equal(t, want, queryDocuments(t, dbPath(vault)))
}

func TestBuildLinks(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))

	got := queryLinks(t, dbPath(vault), "LnL-SRD/Loitsut/8_piirin_loitsut.md")
	want := []linkRow{
		{"LnL-SRD/Loitsut/8_piirin_loitsut.md", "relative", "inline", "Antimaaginen_alue", "/letl/srd/loitsut/antimaaginen_alue", 5},
		{"LnL-SRD/Loitsut/8_piirin_loitsut.md", "relative", "inline", "../Hahmonluonti/Vaiheet#Pisteet", "/letl/srd/hahmonluonti/vaiheet#pisteet", 5},
		{"LnL-SRD/Loitsut/8_piirin_loitsut.md", "anchor", "inline", "#alku", "#alku", 6},
		{"LnL-SRD/Loitsut/8_piirin_loitsut.md", "relative", "inline", "Puuttuva_loitsu", "/letl/srd/loitsut/puuttuva_loitsu", 8},
	}
	assert.Equal(t, want, got)
}

func TestBuildDefinitionLink(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))

	got := queryLinks(t, dbPath(vault), "LnL-SRD/Hahmonluonti/Vaiheet.md")
	require.Len(t, got, 1)
	assert.Equal(t, "definition", got[0].linkType)
	assert.Equal(t, "/letl/srd/loitsut/8_piirin_loitsut", got[0].target)
	assert.Equal(t, 5, got[0].lineStart)
}

func TestBuildNonCorpusLinks(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))

	got := queryLinks(t, dbPath(vault), "blog/post.md")
	require.Len(t, got, 2)
	assert.Equal(t, "some/path", got[0].target)
	assert.Equal(t, "/letl/srd/readme", got[1].target)
}

func TestBuildRebuildOverwritesDB(t *testing.T) {
	vault := copyVault(t, "srd")
	require.NoError(t, Build(vault, BuildOptions{}))

	require.NoError(t, os.Remove(filepath.Join(vault, "blog", "post.md")))
	require.NoError(t, Build(vault, BuildOptions{}))

	assert.Len(t, queryDocuments(t, dbPath(vault)), 4)
}

func TestBuildExcludePaths(t *testing.T) {
	vault := copyVault(t, "srd")
	writeFile(t, vault, ConfigFileName, "build:\n  exclude_paths:\n    - \"blog/*\"\n")
	require.NoError(t, Build(vault, BuildOptions{}))

	for _, d := range queryDocuments(t, dbPath(vault)) {
		assert.NotEqual(t, "blog/post.md", d.path)
	}
}

func TestBuildExcludesDataDir(t *testing.T) {
	vault := copyVault(t, "srd")
	writeFile(t, vault, filepath.Join(dataDirName, "hidden.md"), "[x](X)\n")
	require.NoError(t, Build(vault, BuildOptions{}))
	assert.Len(t, queryDocuments(t, dbPath(vault)), 5)
}

func TestBuildInvalidConfig(t *testing.T) {
	vault := copyVault(t, "srd")
	writeFile(t, vault, ConfigFileName, "build:\n  exclude_paths:\n    - \"[ab]*\"\n")
	err := Build(vault, BuildOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported glob pattern")
}
