package routeparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `use std::string

/
  GET Index
  people
    GET People::Index
    POST People::Create
      [filter: string]
    {id: int}
      GET People::Show
  old-index
    GET -> Legacy::Index
`

func TestParseHeadersAndRoot(t *testing.T) {
	cfg, err := ParseString(sample)
	require.NoError(t, err)

	require.Len(t, cfg.Headers, 1)
	require.Equal(t, "use std::string", cfg.Headers[0].Text)

	require.Len(t, cfg.Routes.Resources, 1)
	require.Equal(t, "Index", cfg.Routes.Resources[0].Name)
}

func TestParseNestedResourcesAndQueryParams(t *testing.T) {
	cfg, err := ParseString(sample)
	require.NoError(t, err)

	require.Len(t, cfg.Routes.Routes, 2)
	people := cfg.Routes.Routes[0]
	require.Equal(t, "people", people.PathSegment.Static)
	require.Len(t, people.Routes.Resources, 2)

	create := people.Routes.Resources[1]
	require.Equal(t, "Create", create.Name)
	require.Equal(t, []string{"People"}, create.Modules)
	require.Len(t, create.QueryParameters, 1)
	require.Equal(t, "filter", create.QueryParameters[0].Name)
}

func TestParseDynamicSegment(t *testing.T) {
	cfg, err := ParseString(sample)
	require.NoError(t, err)

	people := cfg.Routes.Routes[0]
	require.Len(t, people.Routes.Routes, 1)

	dyn := people.Routes.Routes[0].PathSegment
	require.Equal(t, "id", dyn.Dynamic.Name)
	require.Equal(t, "int", dyn.Dynamic.Typ)
}

func TestParseRedirectResource(t *testing.T) {
	cfg, err := ParseString(sample)
	require.NoError(t, err)

	oldIndex := cfg.Routes.Routes[1]
	require.Equal(t, "old-index", oldIndex.PathSegment.Static)
	require.Len(t, oldIndex.Routes.Resources, 1)
	require.True(t, oldIndex.Routes.Resources[0].IsRedirect)
}

func TestParseRejectsOddIndentation(t *testing.T) {
	_, err := ParseString("/\n   GET Index\n")
	require.Error(t, err)
}

func TestParseRejectsMissingRootSlash(t *testing.T) {
	_, err := ParseString("GET Index\n")
	require.Error(t, err)
}

func TestParseStringifyRoundTrip(t *testing.T) {
	cfg, err := ParseString(sample)
	require.NoError(t, err)

	again, err := ParseString(cfg.Stringify())
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}
