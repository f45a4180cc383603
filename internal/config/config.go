// Package config defines the route configuration tree that is the input
// to the wayfinder pipeline: a hierarchy of path segments, HTTP methods,
// handler identifiers, and typed parameters. Values in this package are
// produced either by internal/routeparse (parsing the textual DSL) or by
// internal/routebuild (a programmatic, fluent builder) — the pipeline
// itself treats RouteConfig as an opaque input and does not care which
// one produced it.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern is the shape every identifier-like string in a
// RouteConfig must match: module names, resource names, and parameter
// names.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsIdentifier reports whether s is a valid identifier-shaped string.
func IsIdentifier(s string) bool {
	return s != "" && identifierPattern.MatchString(s)
}

// RouteConfig is an entire routing file: a run of header lines followed
// by a tree of routes.
type RouteConfig struct {
	Headers []Header
	Routes  Routes
}

// Stringify renders the configuration back to the textual DSL it would
// have been parsed from. Used for documentation generation (the emitted
// matcher's package comment embeds this) and for round-trip testing.
func (c RouteConfig) Stringify() string {
	var headers strings.Builder
	for _, h := range c.Headers {
		headers.WriteString(h.Text)
		headers.WriteByte('\n')
	}

	sep := ""
	if headers.Len() > 0 {
		sep = "\n"
	}

	return fmt.Sprintf("%s%s/\n%s", headers.String(), sep, c.Routes.Stringify(1))
}

// Mount merges another RouteConfig's routes under the given path prefix,
// attaching it as a nested static segment, and merges in any headers the
// sub-configuration declared (deduplicated, preserving first occurrence).
func (c RouteConfig) Mount(at string, sub RouteConfig) RouteConfig {
	seen := make(map[string]bool, len(c.Headers)+len(sub.Headers))
	var merged []Header
	for _, h := range append(append([]Header{}, c.Headers...), sub.Headers...) {
		if seen[h.Text] {
			continue
		}
		seen[h.Text] = true
		merged = append(merged, h)
	}
	c.Headers = merged

	c.Routes.Routes = append(c.Routes.Routes, NestedRoutes{
		PathSegment: PathSegment{Kind: SegmentStatic, Static: at},
		Routes:      sub.Routes,
	})
	return c
}

// Header is a line of code pasted verbatim into the emitted output's
// prologue, usually a `use`/import line the generated code needs in
// scope (for example, to bring a parameter's declared type into scope).
type Header struct {
	Text string
}

// NewHeader trims trailing spaces and tabs from text and wraps it.
func NewHeader(text string) Header {
	return Header{Text: strings.TrimRight(text, " \t")}
}

// Routes is a listing of resources and nested routes, plus any query
// parameters that should be inherited by every resource below this
// point in the tree.
type Routes struct {
	Resources      []Resource
	Routes         []NestedRoutes
	QueryParameters []Param
}

func indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("  ", level)
}

// Stringify renders this Routes block (and everything nested beneath
// it) at the given indentation level.
func (r Routes) Stringify(level int) string {
	var b strings.Builder
	for _, p := range r.QueryParameters {
		fmt.Fprintf(&b, "%s[%s]\n", indent(level), p)
	}
	for _, res := range r.Resources {
		b.WriteString(res.Stringify(level))
	}
	for _, nr := range r.Routes {
		b.WriteString(nr.Stringify(level))
	}
	return b.String()
}

// Resource is a handler available at a specific path: a method, the
// dotted module path plus name identifying the handler, whether it is a
// redirect, and any query parameters local to this resource (on top of
// whatever was inherited from ancestor Routes blocks).
type Resource struct {
	Method         Method
	Modules        []string
	Name           string
	IsRedirect     bool
	QueryParameters []Param
}

// FullName is the resource's complete handler identity: its module path
// joined with its name. Two non-redirect resources sharing a FullName is
// a configuration error (see internal/flat).
func (r Resource) FullName() string {
	if len(r.Modules) == 0 {
		return r.Name
	}
	return strings.Join(r.Modules, "::") + "::" + r.Name
}

// Stringify renders this resource as a single DSL resource line (plus
// any local query parameter lines).
func (r Resource) Stringify(level int) string {
	var params strings.Builder
	for _, p := range r.QueryParameters {
		fmt.Fprintf(&params, "\n%s[%s]", indent(level+1), p)
	}

	arrow := ""
	if r.IsRedirect {
		arrow = " ->"
	}

	var modules strings.Builder
	for _, m := range r.Modules {
		modules.WriteString(m)
		modules.WriteString("::")
	}

	return fmt.Sprintf("%s%s%s %s%s%s\n", indent(level), r.Method, arrow, modules.String(), r.Name, params.String())
}

// NestedRoutes is a block of routes nested under a single path segment.
type NestedRoutes struct {
	PathSegment PathSegment
	Routes      Routes
}

// Stringify renders the path segment line plus its nested Routes block.
func (n NestedRoutes) Stringify(level int) string {
	return fmt.Sprintf("%s%s\n%s", indent(level), n.PathSegment, n.Routes.Stringify(level+1))
}

// SegmentKind distinguishes the two shapes a PathSegment can take.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentDynamic
)

// PathSegment is one `/`-delimited component of a route's path: either a
// static literal or a dynamic, typed capture.
type PathSegment struct {
	Kind    SegmentKind
	Static  string
	Dynamic Param
}

// StaticSegment builds a PathSegment for a literal path component.
func StaticSegment(s string) PathSegment {
	return PathSegment{Kind: SegmentStatic, Static: s}
}

// DynamicSegment builds a PathSegment for a typed capture.
func DynamicSegment(p Param) PathSegment {
	return PathSegment{Kind: SegmentDynamic, Dynamic: p}
}

func (p PathSegment) String() string {
	switch p.Kind {
	case SegmentDynamic:
		return "{" + p.Dynamic.String() + "}"
	default:
		return p.Static
	}
}

// Param is a named, typed path or query parameter. Typ is a type
// expression pasted verbatim into the emitted output.
type Param struct {
	Name string
	Typ  string
}

// NewParam builds a Param, trimming surrounding whitespace from both
// name and type.
func NewParam(name, typ string) Param {
	return Param{Name: strings.TrimSpace(name), Typ: strings.TrimSpace(typ)}
}

func (p Param) String() string {
	return p.Name + ": " + p.Typ
}
