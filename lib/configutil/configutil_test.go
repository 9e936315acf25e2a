package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string `json:"host"`
	UseHttp bool   `json:"use_http"`
	Timeout int    `json:"timeout_seconds"`
}

func writeFile(t testing.TB, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "kni.local.json5"), LocalPath(filepath.Join("a", "kni.json5")))
	require.Equal(t, "telemetry.local.json5", LocalPath("telemetry.json5"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "kni.json5"), `{
		// comments and trailing commas are allowed
		host: "portal.example.nz",
		timeout_seconds: 10,
	}`)
	writeFile(t, filepath.Join(dir, "kni.local.json5"), `{ host: "portal.other.nz" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "kni.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{Host: "portal.other.nz", Timeout: 10}, cfg)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "kni.local.json5"), `{ use_http: true }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "kni.json5"))
	require.NoError(t, err)
	require.True(t, cfg.UseHttp)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "kni.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "kni.json5"), `{ host: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "kni.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursivelyFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0777))
	writeFile(t, filepath.Join(root, "a", "kni.json5"), `{ host: "portal.example.nz" }`)

	cfg, path, err := ReadRecursivelyFrom[testConfig](nested, "kni.json5")
	require.NoError(t, err)
	require.Equal(t, "portal.example.nz", cfg.Host)
	require.Equal(t, filepath.Join(root, "a", "kni.json5"), path)
}

func TestReadRecursivelyFromNotFound(t *testing.T) {
	_, _, err := ReadRecursivelyFrom[testConfig](t.TempDir(), "definitely-not-here-kni.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}
