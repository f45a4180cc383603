package wayfinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchand/wayfinder-go/internal/config"
)

func simpleConfigForBuilderTest() config.RouteConfig {
	return config.RouteConfig{
		Routes: config.Routes{
			Resources: []config.Resource{{Method: config.Get, Name: "Index"}},
		},
	}
}

func TestBuildFromFile(t *testing.T) {
	dir := t.TempDir()

	in := filepath.Join(dir, "routes.wf")
	require.NoError(t, os.WriteFile(in, []byte("/\n  GET Index\n"), 0o644))

	out := filepath.Join(dir, "routes_gen.go")

	err := New().InputFile(in).OutputFile(out).PackageName("routes").Build()
	require.NoError(t, err)

	generated, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(generated), "package routes")
	require.Contains(t, string(generated), "func MatchRoute")
}

func TestBuildFromConfigSkipsParsing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "routes_gen.go")

	err := New().InputConfig(simpleConfigForBuilderTest()).OutputFile(out).Build()
	require.NoError(t, err)

	generated, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(generated), "type Index struct")
}

func TestBuildReportsParseErrors(t *testing.T) {
	dir := t.TempDir()

	in := filepath.Join(dir, "routes.wf")
	require.NoError(t, os.WriteFile(in, []byte("GET Index\n"), 0o644))

	err := New().InputFile(in).OutputFile(filepath.Join(dir, "out.go")).Build()
	require.Error(t, err)
}
