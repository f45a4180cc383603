// Package gen is the code generator: it turns a flattened configuration
// into a single, standalone Go source file containing one request struct
// per non-redirect action, one closed Route interface per module
// (emulating a closed sum type with an unexported marker method, since Go
// has no tagged union), and a MatchRoute function compiled directly out
// of the matching trie rather than walked at request time.
//
// The generator never builds go/ast nodes: it assembles the output as
// plain Go source text in a bytes.Buffer and formats the whole thing
// once, at the end, with go/format.Source.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"sort"
	"strings"

	"github.com/couchand/wayfinder-go/internal/config"
	"github.com/couchand/wayfinder-go/internal/flat"
)

// Options controls details of the emitted file that do not change its
// matching semantics.
type Options struct {
	// PackageName is the package clause of the generated file.
	PackageName string
	// RuntimeImport is the import path generated code uses for
	// Match/Error. Empty defaults to this module's own pkg/wayfinder.
	// Ignored when Inline is true.
	RuntimeImport string
	// Inline, when true, copies the Match/MatchKind/Error declarations
	// directly into the generated file instead of importing them, so
	// that the output does not import the runtime package. A Uuid
	// parameter still makes the output import github.com/google/uuid.
	Inline bool
}

func (o Options) runtimeImport() string {
	if o.RuntimeImport == "" {
		return "github.com/couchand/wayfinder-go/pkg/wayfinder"
	}
	return o.RuntimeImport
}

func (o Options) runtimePackage() string {
	if o.Inline {
		return ""
	}
	parts := strings.Split(o.runtimeImport(), "/")
	return parts[len(parts)-1]
}

// Codegen flattens cfg and writes the generated matcher source to w. It
// is the sole entry point of this package; everything else here is a
// private helper of the single pass it performs.
func Codegen(w io.Writer, cfg config.RouteConfig, opts Options) error {
	if opts.PackageName == "" {
		opts.PackageName = "routes"
	}

	if _, err := flat.FlattenModules(cfg.Routes); err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	actions := collectActions(cfg.Routes)
	if err := checkDuplicateFields(actions); err != nil {
		return fmt.Errorf("gen: %w", err)
	}
	root := buildTree(actions)

	t := flat.ToTrie(flat.Flatten(cfg.Routes))

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by wayfinder. DO NOT EDIT.\n//\n")
	for _, line := range strings.Split(strings.TrimRight(cfg.Stringify(), "\n"), "\n") {
		if line == "" {
			fmt.Fprintf(&buf, "//\n")
		} else {
			fmt.Fprintf(&buf, "// %s\n", line)
		}
	}
	fmt.Fprintf(&buf, "\npackage %s\n\n", opts.PackageName)

	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t\"net/url\"\n")
	if needsFmt(actions) || opts.Inline {
		fmt.Fprintf(&buf, "\t\"fmt\"\n")
	}
	if needsStrconv(actions) {
		fmt.Fprintf(&buf, "\t\"strconv\"\n")
	}
	if !opts.Inline {
		fmt.Fprintf(&buf, "\n\t%q\n", opts.runtimeImport())
	}
	if needsUUID(actions) {
		fmt.Fprintf(&buf, "\t\"github.com/google/uuid\"\n")
	}
	for _, h := range cfg.Headers {
		fmt.Fprintf(&buf, "\t%s\n", h.Text)
	}
	fmt.Fprintf(&buf, ")\n\n")

	if opts.Inline {
		emitInlineRuntime(&buf)
	}

	emitModule(&buf, root, opts)

	em := &matcherEmitter{buf: &buf, opts: opts}
	em.emitMatchRoute(t)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("gen: formatting generated source: %w", err)
	}

	_, err = w.Write(formatted)
	return err
}

// actionDef is one resource, redirect or not, with its full (inherited
// plus resource-local) query parameter list and its module path. Unlike
// flat.FlattenedAction, it is not restricted to non-redirect resources:
// the matcher's Route sum type needs a variant for every resource a
// path can resolve to, redirects included.
type actionDef struct {
	Modules     []string
	Name        string
	Method      config.Method
	IsRedirect  bool
	Path        flat.FlattenedPath
	QueryParams []config.Param
}

func collectActions(routes config.Routes) []actionDef {
	var out []actionDef
	for _, fr := range flat.Flatten(routes) {
		for _, r := range fr.Resources {
			out = append(out, actionDef{
				Modules:     r.Modules,
				Name:        r.Name,
				Method:      r.Method,
				IsRedirect:  r.IsRedirect,
				Path:        fr.Path,
				QueryParams: append(append([]config.Param{}, fr.QueryParameters...), r.QueryParameters...),
			})
		}
	}
	return out
}

func needsStrconv(actions []actionDef) bool {
	for _, a := range actions {
		for _, p := range allParams(a) {
			if resolveParamType(p.Typ).NeedsStrconv {
				return true
			}
		}
	}
	return false
}

func needsUUID(actions []actionDef) bool {
	for _, a := range actions {
		for _, p := range allParams(a) {
			if resolveParamType(p.Typ).NeedsUUID {
				return true
			}
		}
	}
	return false
}

func needsFmt(actions []actionDef) bool {
	for _, a := range actions {
		if len(a.Path.Dynamics()) > 0 {
			return true
		}
	}
	return false
}

func allParams(a actionDef) []config.Param {
	return append(append([]config.Param{}, a.Path.Dynamics()...), a.QueryParams...)
}

// DuplicateFieldError reports that an action's route and query
// parameters (inherited parameters are not deduplicated by name) would
// collide on the same generated struct field name.
type DuplicateFieldError struct {
	Modules []string
	Name    string
	Field   string
}

func (e *DuplicateFieldError) Error() string {
	full := e.Name
	if len(e.Modules) > 0 {
		full = strings.Join(e.Modules, "::") + "::" + e.Name
	}
	return fmt.Sprintf("gen: action %q would generate two %q fields (a route and query parameter share a name, or two query parameters do)", full, e.Field)
}

// checkDuplicateFields catches name collisions between an action's route
// and query parameters before any Go source is assembled — left
// unchecked, they would surface only as a go/format.Source failure
// (two struct fields with the same name), with no indication of which
// route caused it.
func checkDuplicateFields(actions []actionDef) error {
	for _, a := range actions {
		seen := make(map[string]bool, len(a.Path.Dynamics())+len(a.QueryParams))
		for _, p := range allParams(a) {
			field := ToCapsCase(p.Name)
			if seen[field] {
				return &DuplicateFieldError{Modules: a.Modules, Name: a.Name, Field: field}
			}
			seen[field] = true
		}
	}
	return nil
}

// moduleNode is a node of the module hierarchy gen builds for its own
// purposes: unlike flat.FlattenedModule, it keeps redirect resources,
// since the generated Route sum type needs a variant for them too.
type moduleNode struct {
	name     string // this module's own identifier, "" for the root
	prefix   string // accumulated CapsCase prefix, "" for the root
	actions  []actionDef
	children []*moduleNode
}

func buildTree(actions []actionDef) *moduleNode {
	root := &moduleNode{}
	index := map[string]*moduleNode{"": root}

	find := func(modules []string) *moduleNode {
		key := strings.Join(modules, "::")
		if n, ok := index[key]; ok {
			return n
		}
		cur := root
		curKey := ""
		for _, m := range modules {
			curKey = curKey + "::" + m
			next, ok := index[curKey]
			if !ok {
				next = &moduleNode{name: m, prefix: cur.prefix + ToCapsCase(m)}
				cur.children = append(cur.children, next)
				index[curKey] = next
			}
			cur = next
		}
		return cur
	}

	for _, a := range actions {
		n := find(a.Modules)
		n.actions = append(n.actions, a)
	}

	var sortTree func(n *moduleNode)
	sortTree = func(n *moduleNode) {
		sort.Slice(n.actions, func(i, j int) bool {
			if n.actions[i].Name != n.actions[j].Name {
				return n.actions[i].Name < n.actions[j].Name
			}
			return n.actions[i].Method < n.actions[j].Method
		})
		sort.Slice(n.children, func(i, j int) bool { return n.children[i].name < n.children[j].name })
		for _, c := range n.children {
			sortTree(c)
		}
	}
	sortTree(root)

	return root
}

// routeIface is the name of the module's closed Route interface: "Route"
// at the root, "<Prefix>Route" everywhere else.
func routeIface(prefix string) string {
	if prefix == "" {
		return "Route"
	}
	return prefix + "Route"
}

// markerMethod is the unexported method every variant of a module's
// Route interface implements, sealing it against implementations from
// outside this file.
func markerMethod(prefix string) string {
	return "is" + routeIface(prefix)
}

func actionStructName(prefix, name string) string {
	return prefix + ToCapsCase(name)
}

// variantStructName is the wrapper type a module's Route interface uses
// to hold a descent into one of its sub-modules.
func variantStructName(childPrefix string) string {
	return childPrefix + "Variant"
}

func emitModule(buf *bytes.Buffer, n *moduleNode, opts Options) {
	iface := routeIface(n.prefix)
	marker := markerMethod(n.prefix)

	fmt.Fprintf(buf, "// %s is the closed set of routes reachable from this point in the\n", iface)
	fmt.Fprintf(buf, "// route table.\n")
	fmt.Fprintf(buf, "type %s interface {\n", iface)
	fmt.Fprintf(buf, "\tToPath() string\n")
	fmt.Fprintf(buf, "\t%s()\n", marker)
	fmt.Fprintf(buf, "}\n\n")

	for _, a := range n.actions {
		emitActionStruct(buf, n.prefix, a, iface, marker)
	}

	for _, c := range n.children {
		emitModule(buf, c, opts)
		emitVariant(buf, n.prefix, c, iface, marker)
	}
}

func emitActionStruct(buf *bytes.Buffer, prefix string, a actionDef, iface, marker string) {
	name := actionStructName(prefix, a.Name)
	if a.IsRedirect {
		name += "Redirect"
	}

	dynamics := a.Path.Dynamics()

	fmt.Fprintf(buf, "// %s is the %s route at %s.\n", name, a.Method, pathTemplate(a.Path))
	fmt.Fprintf(buf, "type %s struct {\n", name)
	for _, p := range dynamics {
		fmt.Fprintf(buf, "\t%s %s\n", ToCapsCase(p.Name), resolveParamType(p.Typ).GoType)
	}
	for _, p := range a.QueryParams {
		fmt.Fprintf(buf, "\t%s *%s\n", ToCapsCase(p.Name), resolveParamType(p.Typ).GoType)
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (r %s) %s() {}\n\n", name, marker)

	fmt.Fprintf(buf, "// ToPath renders the path this route matches, substituting its\n")
	fmt.Fprintf(buf, "// captured route parameters back in.\n")
	fmt.Fprintf(buf, "func (r %s) ToPath() string {\n", name)
	fmt.Fprintf(buf, "\treturn %s\n", pathExpr(a.Path))
	fmt.Fprintf(buf, "}\n\n")
}

func emitVariant(buf *bytes.Buffer, parentPrefix string, child *moduleNode, parentIface, parentMarker string) {
	v := variantStructName(child.prefix)
	childIface := routeIface(child.prefix)

	fmt.Fprintf(buf, "// %s wraps a descent into the %q sub-module as a variant of %s.\n", v, child.name, parentIface)
	fmt.Fprintf(buf, "type %s struct {\n", v)
	fmt.Fprintf(buf, "\tRoute %s\n", childIface)
	fmt.Fprintf(buf, "}\n\n")
	fmt.Fprintf(buf, "func (r %s) %s() {}\n\n", v, parentMarker)
	fmt.Fprintf(buf, "func (r %s) ToPath() string { return r.Route.ToPath() }\n\n", v)
}

// emitInlineRuntime writes the Match/MatchKind/Error declarations
// directly into the generated file, for Options.Inline — a copy of
// pkg/wayfinder's public surface, kept in exact sync with it by hand
// since there is nowhere to share it from once inlined.
func emitInlineRuntime(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "type MatchKind int\n\n")
	fmt.Fprintf(buf, "const (\n\tNotFound MatchKind = iota\n\tNotAllowed\n\tRouteKind\n\tRedirectKind\n)\n\n")
	fmt.Fprintf(buf, "type Match[T any] struct {\n\tKind  MatchKind\n\tValue T\n}\n\n")
	fmt.Fprintf(buf, "func newMatchRoute[T any](v T) Match[T] { return Match[T]{Kind: RouteKind, Value: v} }\n\n")
	fmt.Fprintf(buf, "func newMatchRedirect[T any](v T) Match[T] { return Match[T]{Kind: RedirectKind, Value: v} }\n\n")
	fmt.Fprintf(buf, "type Error struct {\n\tParam string\n\tCause error\n}\n\n")
	fmt.Fprintf(buf, "func (e *Error) Error() string { return fmt.Sprintf(%q, e.Param, e.Cause) }\n\n", "error parsing %q parameter: %v")
	fmt.Fprintf(buf, "func (e *Error) Unwrap() error { return e.Cause }\n\n")
}

func pathTemplate(p flat.FlattenedPath) string {
	var parts []string
	for _, seg := range p.Segments {
		switch seg.Kind {
		case config.SegmentStatic:
			parts = append(parts, seg.Static)
		case config.SegmentDynamic:
			parts = append(parts, ":"+seg.Dynamic.Name)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// pathExpr renders a Go expression that builds this path's URL from the
// receiver's captured fields, named r in the enclosing ToPath method.
func pathExpr(p flat.FlattenedPath) string {
	var parts []string
	var args []string
	for _, seg := range p.Segments {
		switch seg.Kind {
		case config.SegmentStatic:
			parts = append(parts, seg.Static)
		case config.SegmentDynamic:
			parts = append(parts, "%v")
			args = append(args, "r."+ToCapsCase(seg.Dynamic.Name))
		}
	}
	template := "/" + strings.Join(parts, "/")
	if len(args) == 0 {
		return fmt.Sprintf("%q", template)
	}
	return fmt.Sprintf("fmt.Sprintf(%q, %s)", template, strings.Join(args, ", "))
}
