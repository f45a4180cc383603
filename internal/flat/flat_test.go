package flat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchand/wayfinder-go/internal/config"
)

func peopleConfig() config.Routes {
	return config.Routes{
		QueryParameters: []config.Param{config.NewParam("debug", "bool")},
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
	}
}

func TestFlattenVisitsEveryNode(t *testing.T) {
	out := Flatten(peopleConfig())
	require.Len(t, out, 3)
	require.Empty(t, out[0].Path.Segments)
	require.Len(t, out[0].Resources, 1)
}

func TestFlattenInheritsQueryParameters(t *testing.T) {
	out := Flatten(peopleConfig())
	for _, fr := range out {
		require.Contains(t, fr.QueryParameters, config.NewParam("debug", "bool"))
	}
}

func TestToTrieStoresRootRouteAtRoot(t *testing.T) {
	trie := ToTrie(Flatten(peopleConfig()))
	require.NotNil(t, trie)
	require.NotNil(t, trie.Data, "root path has a resource of its own")
}

func TestFlattenModulesGroupsByModulePath(t *testing.T) {
	root, err := FlattenModules(peopleConfig())
	require.NoError(t, err)
	require.Equal(t, "routes", root.Name)
	require.Len(t, root.Actions, 1)
	require.Equal(t, "Index", root.Actions[0].Name)

	require.Len(t, root.Modules, 1)
	people := root.Modules[0]
	require.Equal(t, "People", people.Name)
	require.Len(t, people.Actions, 3)
	require.Equal(t, "Create", people.Actions[0].Name)
	require.Equal(t, "Index", people.Actions[1].Name)
	require.Equal(t, "Show", people.Actions[2].Name)

	show := people.Actions[2]
	require.Len(t, show.RouteParameters, 1)
	require.Equal(t, "id", show.RouteParameters[0].Name)
}

func TestFlattenModulesRejectsDuplicateActions(t *testing.T) {
	routes := config.Routes{
		Resources: []config.Resource{
			{Method: config.Get, Name: "Index"},
			{Method: config.Post, Name: "Index"},
		},
	}

	_, err := FlattenModules(routes)
	require.Error(t, err)

	var dup *DuplicateActionError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "Index", dup.Name)
}

func TestFlattenModulesSkipsRedirects(t *testing.T) {
	routes := config.Routes{
		Resources: []config.Resource{
			{Method: config.Get, Name: "Old", IsRedirect: true},
			{Method: config.Get, Name: "New"},
		},
	}

	root, err := FlattenModules(routes)
	require.NoError(t, err)
	require.Len(t, root.Actions, 1)
	require.Equal(t, "New", root.Actions[0].Name)
}

func TestFlattenedPathExpand(t *testing.T) {
	p := FlattenedPath{Segments: []config.PathSegment{
		config.StaticSegment("people"),
		config.DynamicSegment(config.NewParam("id", "int")),
	}}

	expanded := p.Expand()
	require.Len(t, expanded, len("people")+3)
	require.Equal(t, Static('p'), expanded[0])
	require.Equal(t, Dynamic("id"), expanded[len("people")+1])
	require.Equal(t, Separator, expanded[len(expanded)-1])
}
