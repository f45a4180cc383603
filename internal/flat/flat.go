// Package flat lifts a nested configuration tree (internal/config) into
// the two intermediate forms the code generator needs: a path-indexed
// listing of every node in the tree (FlattenedRoutes), and a
// handler-indexed module hierarchy (FlattenedModules). Both are produced
// from a single depth-first traversal discipline; neither outlives a
// single call to the generator.
package flat

import (
	"fmt"
	"sort"

	"github.com/couchand/wayfinder-go/internal/config"
	"github.com/couchand/wayfinder-go/internal/trie"
)

// FlattenedPath is the sequence of path segments from the configuration
// root down to one particular node, preserving root-to-node order.
type FlattenedPath struct {
	Segments []config.PathSegment
}

// Expand converts the path to its Charlike expansion: each static
// segment becomes one Static symbol per byte followed by a Separator;
// each dynamic segment becomes one Dynamic symbol followed by a
// Separator.
func (p FlattenedPath) Expand() []Charlike {
	var out []Charlike
	for _, seg := range p.Segments {
		switch seg.Kind {
		case config.SegmentStatic:
			for i := 0; i < len(seg.Static); i++ {
				out = append(out, Static(seg.Static[i]))
			}
			out = append(out, Separator)
		case config.SegmentDynamic:
			out = append(out, Dynamic(seg.Dynamic.Name), Separator)
		}
	}
	return out
}

// Dynamics returns the Dynamic path segments of this path, in path
// order — these are a route's route parameters.
func (p FlattenedPath) Dynamics() []config.Param {
	var out []config.Param
	for _, seg := range p.Segments {
		if seg.Kind == config.SegmentDynamic {
			out = append(out, seg.Dynamic)
		}
	}
	return out
}

// FlattenedRoute is one node of the configuration tree, indexed by its
// full path: the resources attached exactly there, and the query
// parameters inherited from every ancestor Routes block (not
// deduplicated by name; a name collision with a route parameter is
// caught later, at struct-field generation time).
type FlattenedRoute struct {
	Path            FlattenedPath
	Resources       []config.Resource
	QueryParameters []config.Param
}

// Flatten performs a depth-first, pre-order walk of routes, emitting one
// FlattenedRoute per node visited (including the root and internal
// nodes carrying no resources of their own).
func Flatten(routes config.Routes) []FlattenedRoute {
	return flatten(routes, nil, nil)
}

func flatten(routes config.Routes, path []config.PathSegment, inherited []config.Param) []FlattenedRoute {
	queryParameters := append(append([]config.Param{}, inherited...), routes.QueryParameters...)

	flattened := []FlattenedRoute{{
		Path:            FlattenedPath{Segments: append([]config.PathSegment{}, path...)},
		Resources:       routes.Resources,
		QueryParameters: queryParameters,
	}}

	for _, child := range routes.Routes {
		childPath := append(append([]config.PathSegment{}, path...), child.PathSegment)
		flattened = append(flattened, flatten(child.Routes, childPath, queryParameters)...)
	}

	return flattened
}

// ToTrie inserts every flattened route into a Trie keyed by its path's
// Charlike expansion. Paths are unique by construction (they correspond
// to distinct nodes of the configuration tree); a collision here is a
// bug in Flatten, not a condition callers need to handle, so it panics.
func ToTrie(routes []FlattenedRoute) *trie.Trie[Charlike, FlattenedRoute] {
	t := trie.New[Charlike, FlattenedRoute](Compare)

	for _, route := range routes {
		if err := t.Add(route.Path.Expand(), route); err != nil {
			panic(fmt.Sprintf("flat: %v (every configuration path should be unique)", err))
		}
	}

	return t
}

// FlattenedAction is a non-redirect resource, considered from the
// module-hierarchy perspective: its full path, its route parameters
// (the dynamic segments of that path, in path order), and its query
// parameters (inherited, then resource-local, concatenated in that
// order).
type FlattenedAction struct {
	Name            string
	Method          config.Method
	Path            FlattenedPath
	RouteParameters []config.Param
	QueryParameters []config.Param
}

// FlattenedModule is a namespace grouping handler names: a sorted list
// of actions attached directly to it, and a sorted list of sub-modules.
// The root module is always named "routes".
type FlattenedModule struct {
	Name    string
	Actions []FlattenedAction
	Modules []*FlattenedModule
}

// DuplicateActionError reports that two non-redirect resources resolved
// to the same (modules, name) handler identity.
type DuplicateActionError struct {
	Modules []string
	Name    string
}

func (e *DuplicateActionError) Error() string {
	full := e.Name
	if len(e.Modules) > 0 {
		full = fmt.Sprintf("%v::%s", e.Modules, e.Name)
	}
	return fmt.Sprintf("flat: duplicate controller action `%s`", full)
}

// moduleBuilder accumulates actions and sub-modules while the module
// tree is being built, before being sorted and frozen into a
// FlattenedModule by finalize.
type moduleBuilder struct {
	modules map[string]*moduleBuilder
	actions map[string]FlattenedAction
}

func newModuleBuilder() *moduleBuilder {
	return &moduleBuilder{
		modules: make(map[string]*moduleBuilder),
		actions: make(map[string]FlattenedAction),
	}
}

func (m *moduleBuilder) child(name string) *moduleBuilder {
	c, ok := m.modules[name]
	if !ok {
		c = newModuleBuilder()
		m.modules[name] = c
	}
	return c
}

func (m *moduleBuilder) finalize(name string) *FlattenedModule {
	actions := make([]FlattenedAction, 0, len(m.actions))
	for _, a := range m.actions {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })

	modules := make([]*FlattenedModule, 0, len(m.modules))
	for childName, child := range m.modules {
		modules = append(modules, child.finalize(childName))
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	return &FlattenedModule{Name: name, Actions: actions, Modules: modules}
}

// FlattenModules traverses the configuration and groups every
// non-redirect resource by its module path into a FlattenedModule
// hierarchy, sorted by name at every level. It fails with a
// *DuplicateActionError if two non-redirect resources share a full
// handler identity.
func FlattenModules(routes config.Routes) (*FlattenedModule, error) {
	root := newModuleBuilder()

	type pending struct {
		routes    config.Routes
		path      []config.PathSegment
		inherited []config.Param
	}
	stack := []pending{{routes: routes}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		queryParameters := append(append([]config.Param{}, cur.inherited...), cur.routes.QueryParameters...)
		flatPath := FlattenedPath{Segments: append([]config.PathSegment{}, cur.path...)}

		for _, resource := range cur.routes.Resources {
			if resource.IsRedirect {
				continue
			}

			resourceQuery := append(append([]config.Param{}, queryParameters...), resource.QueryParameters...)

			entry := root
			for _, moduleName := range resource.Modules {
				entry = entry.child(moduleName)
			}

			if _, exists := entry.actions[resource.Name]; exists {
				return nil, &DuplicateActionError{Modules: resource.Modules, Name: resource.Name}
			}
			entry.actions[resource.Name] = FlattenedAction{
				Name:            resource.Name,
				Method:          resource.Method,
				Path:            flatPath,
				RouteParameters: flatPath.Dynamics(),
				QueryParameters: resourceQuery,
			}
		}

		for _, child := range cur.routes.Routes {
			childPath := append(append([]config.PathSegment{}, cur.path...), child.PathSegment)
			stack = append(stack, pending{routes: child.Routes, path: childPath, inherited: queryParameters})
		}
	}

	return root.finalize("routes"), nil
}
