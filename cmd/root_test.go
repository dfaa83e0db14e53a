package cmd

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go-browser-topsites/db"
	"go-browser-topsites/internal/browsers"
	"go-browser-topsites/internal/topsites"
)

func writeHistory(t *testing.T, path string, urls ...string) {
	t.Helper()
	c := require.New(t)
	c.NoError(os.MkdirAll(filepath.Dir(path), 0o755))

	conn, err := sql.Open(db.DriverSQLite, path)
	c.NoError(err)
	defer conn.Close()

	_, err = conn.Exec(`CREATE TABLE moz_places (id INTEGER PRIMARY KEY, url LONGVARCHAR, visit_count INTEGER DEFAULT 0)`)
	c.NoError(err)
	for _, u := range urls {
		_, err = conn.Exec(`INSERT INTO moz_places (url, visit_count) VALUES (?, 1)`, u)
		c.NoError(err)
	}
}

// profileRoot builds a Firefox root with a healthy profile, a profile whose
// database is corrupt and a directory that is not a profile.
func profileRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeHistory(t, filepath.Join(root, "abc.default-release", "places.sqlite"),
		"https://mail.example.co.uk/inbox",
		"https://www.example.co.uk/",
		"https://go.dev/doc",
		"not a url",
	)
	broken := filepath.Join(root, "xyz.default", "places.sqlite")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, bytes.Repeat([]byte("junk"), 512), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Crash Reports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "profiles.ini"),
		[]byte("[Profile0]\nPath=abc.default-release\n[Profile1]\nPath=xyz.default\n"), 0o644))
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_JSON(t *testing.T) {
	c := require.New(t)
	root := profileRoot(t)

	stdout, stderr, err := execute(t, "--root", root, "--driver", "sqlite", "--json")
	c.NoError(err)

	var out struct {
		Browser  string `json:"browser"`
		Profiles []struct {
			Profile string          `json:"profile"`
			Sites   []topsites.Site `json:"sites"`
		} `json:"profiles"`
	}
	c.NoError(json.Unmarshal([]byte(stdout), &out))
	c.Equal("Firefox", out.Browser)
	c.Len(out.Profiles, 2)
	c.Equal("abc.default-release", out.Profiles[0].Profile)
	c.Equal([]topsites.Site{{Domain: "example.co.uk", Count: 2}, {Domain: "go.dev", Count: 1}}, out.Profiles[0].Sites)
	c.Equal("xyz.default", out.Profiles[1].Profile)
	c.Empty(out.Profiles[1].Sites)

	c.Contains(stderr, "Skipping profile history")
	c.Contains(stderr, "xyz.default")
}

func TestRoot_ConfigFileAndFlags(t *testing.T) {
	c := require.New(t)
	root := profileRoot(t)

	cfgPath := filepath.Join(t.TempDir(), "topsites.yaml")
	c.NoError(os.WriteFile(cfgPath, []byte("driver: sqlite\ntop: 1\nstrategy: publicsuffix\nlogger:\n  level: error\n"), 0o644))

	stdout, stderr, err := execute(t, "--config", cfgPath, "--root", root, "--parallel", "--no-color")
	c.NoError(err)
	c.Empty(stderr)
	c.Contains(stdout, "1. example.co.uk")
	c.NotContains(stdout, "go.dev")
	c.NotContains(stdout, "\x1b[")
}

func TestRoot_Verbose(t *testing.T) {
	c := require.New(t)
	root := profileRoot(t)

	stdout, stderr, err := execute(t, "--root", root, "--driver", "sqlite", "-v")
	c.NoError(err)
	c.Contains(stdout, "Root: "+root)
	c.Contains(stdout, "Profiles: [abc.default-release, xyz.default]")
	c.Contains(stderr, "DBG")
}

func TestRoot_ParallelVerbose(t *testing.T) {
	c := require.New(t)
	root := profileRoot(t)
	for i := range 6 {
		writeHistory(t, filepath.Join(root, fmt.Sprintf("p%d.default", i), "places.sqlite"),
			"https://go.dev/doc", "https://pkg.go.dev/",
		)
	}

	for range 20 {
		stdout, stderr, err := execute(t, "--root", root, "--driver", "sqlite", "-v", "--parallel")
		c.NoError(err)
		for i := range 6 {
			c.Contains(stdout, fmt.Sprintf("p%d.default", i))
			c.Contains(stderr, fmt.Sprintf("p%d.default", i))
		}
		c.Contains(stderr, "Found data store")
	}
}

func TestRoot_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, _, err := execute(t, "--root", filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, browsers.ErrRootNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Crash Reports"), 0o755))
		_, _, err := execute(t, "--root", root)
		require.ErrorIs(t, err, browsers.ErrNoProfilesFound)
	})

	t.Run("manifest mismatch", func(t *testing.T) {
		root := profileRoot(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "profiles.ini"), []byte("[Profile0]\nPath=other.default\n"), 0o644))
		_, _, err := execute(t, "--root", root, "--driver", "sqlite")
		require.ErrorIs(t, err, browsers.ErrManifestMismatch)
	})

	t.Run("unknown browser", func(t *testing.T) {
		_, _, err := execute(t, "--browser", "netscape")
		require.ErrorIs(t, err, browsers.ErrUnknownBrowser)
	})

	t.Run("invalid top", func(t *testing.T) {
		_, _, err := execute(t, "--top", "0")
		require.Error(t, err)
	})

	t.Run("unexpected argument", func(t *testing.T) {
		_, _, err := execute(t, "extra")
		require.Error(t, err)
	})
}
