package gen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchand/wayfinder-go/internal/config"
)

func simpleConfig() config.RouteConfig {
	return config.RouteConfig{
		Routes: config.Routes{
			Resources: []config.Resource{
				{Method: config.Get, Name: "Index"},
			},
			Routes: []config.NestedRoutes{
				{
					PathSegment: config.StaticSegment("people"),
					Routes: config.Routes{
						Resources: []config.Resource{
							{Method: config.Get, Modules: []string{"People"}, Name: "Index"},
							{Method: config.Post, Modules: []string{"People"}, Name: "Create"},
						},
						Routes: []config.NestedRoutes{
							{
								PathSegment: config.DynamicSegment(config.NewParam("id", "int")),
								Routes: config.Routes{
									Resources: []config.Resource{
										{Method: config.Get, Modules: []string{"People"}, Name: "Show"},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestCodegenProducesExpectedDeclarations(t *testing.T) {
	var buf bytes.Buffer
	err := Codegen(&buf, simpleConfig(), Options{PackageName: "routes"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "package routes")
	require.Contains(t, out, "type Route interface")
	require.Contains(t, out, "type PeopleRoute interface")
	require.Contains(t, out, "type Index struct")
	require.Contains(t, out, "type PeopleShow struct")
	require.Contains(t, out, "type PeopleVariant struct")
	require.Contains(t, out, "func MatchRoute(path, method string, query url.Values)")
	require.Contains(t, out, "strconv.Atoi(text)")
}

func TestCodegenRejectsDuplicateActions(t *testing.T) {
	cfg := config.RouteConfig{
		Routes: config.Routes{
			Resources: []config.Resource{
				{Method: config.Get, Name: "Index"},
				{Method: config.Post, Name: "Index"},
			},
		},
	}

	var buf bytes.Buffer
	err := Codegen(&buf, cfg, Options{})
	require.Error(t, err)
}

func TestCodegenInlineRuntimeAvoidsImportAndNameClash(t *testing.T) {
	var buf bytes.Buffer
	err := Codegen(&buf, simpleConfig(), Options{PackageName: "routes", Inline: true})
	require.NoError(t, err)

	out := buf.String()
	require.NotContains(t, out, "pkg/wayfinder")
	require.Contains(t, out, "func newMatchRoute[T any](v T) Match[T]")
	require.Contains(t, out, "type Route interface")
	require.Contains(t, out, "newMatchRoute[Route](Index{})")
}

func TestCodegenRedirectGetsOwnVariant(t *testing.T) {
	cfg := config.RouteConfig{
		Routes: config.Routes{
			Resources: []config.Resource{
				{Method: config.Get, Name: "Old", IsRedirect: true},
				{Method: config.Get, Name: "New"},
			},
		},
	}

	var buf bytes.Buffer
	err := Codegen(&buf, cfg, Options{})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "type OldRedirect struct")
	require.Contains(t, buf.String(), "wayfinder.Redirect[Route](OldRedirect{})")
}

func TestCodegenSplicesHeadersIntoImportBlock(t *testing.T) {
	cfg := simpleConfig()
	cfg.Headers = []config.Header{
		config.NewHeader(`"example.com/api/types"`),
	}

	var buf bytes.Buffer
	err := Codegen(&buf, cfg, Options{PackageName: "routes"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"example.com/api/types"`)
}

func TestCodegenRejectsCollidingRouteAndQueryParam(t *testing.T) {
	cfg := config.RouteConfig{
		Routes: config.Routes{
			Routes: []config.NestedRoutes{
				{
					PathSegment: config.DynamicSegment(config.NewParam("id", "int")),
					Routes: config.Routes{
						Resources: []config.Resource{
							{
								Method: config.Get,
								Name:   "Show",
								QueryParameters: []config.Param{
									config.NewParam("id", "string"),
								},
							},
						},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	err := Codegen(&buf, cfg, Options{})
	require.Error(t, err)

	var dupErr *DuplicateFieldError
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, "Id", dupErr.Field)
}
