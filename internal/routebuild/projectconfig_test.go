package routebuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProjectConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadProjectConfig(filepath.Join(t.TempDir(), "wayfinder.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultProjectConfig(), cfg)
}

func TestWriteProjectConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wayfinder.toml")

	cfg := ProjectConfig{
		RoutesFile:    "api.wf",
		OutputFile:    "internal/api/routes_gen.go",
		PackageName:   "api",
		InlineRuntime: true,
		Headers:       []string{"use \"example.com/api/types\""},
	}

	require.NoError(t, WriteProjectConfig(path, cfg))

	loaded, err := LoadProjectConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadProjectConfigRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.toml")
	require.NoError(t, os.WriteFile(path, []byte("package_name = ["), 0o644))

	_, err := LoadProjectConfig(path)
	require.Error(t, err)
}
