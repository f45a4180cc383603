package gen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/couchand/wayfinder-go/internal/config"
	"github.com/couchand/wayfinder-go/internal/flat"
	"github.com/couchand/wayfinder-go/internal/trie"
)

// matcherEmitter compiles a matching trie directly into nested Go
// control flow: no part of MatchRoute walks a data structure at request
// time. Each trie node becomes a block of the generated function, and
// each edge becomes a branch in it — a literal byte-chain comparison for
// a run of Static children, a scan-and-capture for a Dynamic child, and
// an either/or check for the segment-boundary Separator child.
type matcherEmitter struct {
	buf  *bytes.Buffer
	opts Options
}

// rt qualifies a name from the runtime package (pkg/wayfinder, or
// whatever Options.RuntimeImport points at) — or leaves it bare when
// Options.Inline declares the runtime types directly in this file.
func (e *matcherEmitter) rt(name string) string {
	if e.opts.Inline {
		return name
	}
	return e.opts.runtimePackage() + "." + name
}

// ctor names the Match constructor function for kind ("Route" or
// "Redirect"): the inline declarations use newMatch<Kind> to avoid
// colliding with the per-module Route interface type of the same name.
func (e *matcherEmitter) ctor(kind string) string {
	if e.opts.Inline {
		return "newMatch" + kind
	}
	return e.opts.runtimePackage() + "." + kind
}

func indent(depth int) string { return strings.Repeat("\t", depth) }

func (e *matcherEmitter) emitMatchRoute(t *trie.Trie[flat.Charlike, flat.FlattenedRoute]) {
	matchRoute := e.rt("Match[Route]")

	fmt.Fprintf(e.buf, "// MatchRoute matches an incoming request's path and method against\n")
	fmt.Fprintf(e.buf, "// the route table. query is only consulted for routes that declare\n")
	fmt.Fprintf(e.buf, "// query parameters; it may be nil otherwise.\n")
	fmt.Fprintf(e.buf, "func MatchRoute(path, method string, query url.Values) (%s, error) {\n", matchRoute)
	fmt.Fprintf(e.buf, "\tif len(path) > 0 && path[0] == '/' {\n")
	fmt.Fprintf(e.buf, "\t\tpath = path[1:]\n")
	fmt.Fprintf(e.buf, "\t}\n")
	fmt.Fprintf(e.buf, "\ti := 0\n")
	fmt.Fprintf(e.buf, "\t_ = i\n\n")

	e.emitNode(t, 1)

	fmt.Fprintf(e.buf, "\treturn %s{Kind: %s}, nil\n", matchRoute, e.rt("NotFound"))
	fmt.Fprintf(e.buf, "}\n\n")
}

// emitNode emits the code reached on arriving at node with the current
// input position in i: first the what-if-we're-done check, then a branch
// per distinct kind of outgoing edge. The what-if-we're-done check only
// fires when node holds a route with at least one resource — flat.Flatten
// also attaches a data-less (zero-Resources) FlattenedRoute to every
// intermediate path-segment node, and those must fall through to their
// children instead of terminating the match here.
func (e *matcherEmitter) emitNode(node *trie.Trie[flat.Charlike, flat.FlattenedRoute], depth int) {
	ind := indent(depth)

	if node.Data != nil && len(node.Data.Resources) > 0 {
		fmt.Fprintf(e.buf, "%sif i == len(path) {\n", ind)
		e.emitDispatch(*node.Data, depth+1)
		fmt.Fprintf(e.buf, "%s}\n", ind)
	}

	var statics []trie.Entry[flat.Charlike, flat.FlattenedRoute]
	var dynamics []trie.Entry[flat.Charlike, flat.FlattenedRoute]
	var separator *trie.Entry[flat.Charlike, flat.FlattenedRoute]

	for _, c := range node.Children {
		switch c.Key.Kind {
		case flat.CharStatic:
			statics = append(statics, c)
		case flat.CharDynamic:
			dynamics = append(dynamics, c)
		case flat.CharSeparator:
			entry := c
			separator = &entry
		}
	}

	// A branch that advances i and then fails further down falls through
	// to the next one, so every later branch restarts from the position
	// this node was entered at.
	saved := ""
	if len(dynamics) > 0 || (len(statics) > 0 && separator != nil) {
		saved = fmt.Sprintf("i%d", depth)
		fmt.Fprintf(e.buf, "%s%s := i\n", ind, saved)
	}

	if len(statics) > 0 {
		e.emitStatics(statics, depth)
	}
	for _, d := range dynamics {
		fmt.Fprintf(e.buf, "%si = %s\n", ind, saved)
		e.emitDynamic(d, depth)
	}
	if separator != nil {
		if saved != "" {
			fmt.Fprintf(e.buf, "%si = %s\n", ind, saved)
		}
		e.emitSeparator(*separator, depth)
	}
}

// emitStatics branches on the next literal byte. A single static child
// is collapsed with every static-only descendant it has into one
// bounds-checked multi-byte comparison rather than one branch per byte.
func (e *matcherEmitter) emitStatics(entries []trie.Entry[flat.Charlike, flat.FlattenedRoute], depth int) {
	ind := indent(depth)

	if len(entries) == 1 {
		run, next := collapseStaticChain(entries[0])
		fmt.Fprintf(e.buf, "%sif i+%d <= len(path) && path[i:i+%d] == %q {\n", ind, len(run), len(run), string(run))
		fmt.Fprintf(e.buf, "%s\ti += %d\n", ind, len(run))
		e.emitNode(next, depth+1)
		fmt.Fprintf(e.buf, "%s}\n", ind)
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key.Byte < entries[j].Key.Byte })
	for idx, ent := range entries {
		open := "if"
		if idx > 0 {
			open = "} else if"
		}
		fmt.Fprintf(e.buf, "%s%s i < len(path) && path[i] == %q {\n", ind, open, ent.Key.Byte)
		fmt.Fprintf(e.buf, "%s\ti++\n", ind)
		e.emitNode(ent.Node, depth+1)
	}
	fmt.Fprintf(e.buf, "%s}\n", ind)
}

// collapseStaticChain follows a run of single-static-child, data-less
// nodes as far as it goes, returning the literal byte run and the node
// reached at its end (which may branch again).
func collapseStaticChain(entry trie.Entry[flat.Charlike, flat.FlattenedRoute]) ([]byte, *trie.Trie[flat.Charlike, flat.FlattenedRoute]) {
	run := []byte{entry.Key.Byte}
	node := entry.Node
	for node.Data == nil && len(node.Children) == 1 && node.Children[0].Key.Kind == flat.CharStatic {
		run = append(run, node.Children[0].Key.Byte)
		node = node.Children[0].Node
	}
	return run, node
}

// captureVarName is the name the raw captured text of a dynamic segment
// is bound to, visible to every nested block inside its capture site.
func captureVarName(paramName string) string { return "p" + ToCapsCase(paramName) }

// emitDynamic captures everything up to the next '/' or end of input as
// a named segment, then descends.
func (e *matcherEmitter) emitDynamic(entry trie.Entry[flat.Charlike, flat.FlattenedRoute], depth int) {
	ind := indent(depth)
	v := captureVarName(entry.Key.Name)

	fmt.Fprintf(e.buf, "%s{\n", ind)
	fmt.Fprintf(e.buf, "%s\tj := i\n", ind)
	fmt.Fprintf(e.buf, "%s\tfor j < len(path) && path[j] != '/' {\n", ind)
	fmt.Fprintf(e.buf, "%s\t\tj++\n", ind)
	fmt.Fprintf(e.buf, "%s\t}\n", ind)
	fmt.Fprintf(e.buf, "%s\tif j > i {\n", ind)
	fmt.Fprintf(e.buf, "%s\t\t%s := path[i:j]\n", ind, v)
	fmt.Fprintf(e.buf, "%s\t\ti = j\n", ind)
	e.emitNode(entry.Node, depth+2)
	fmt.Fprintf(e.buf, "%s\t}\n", ind)
	fmt.Fprintf(e.buf, "%s}\n", ind)
}

// emitSeparator handles the segment boundary: either the input ends
// here (this node's subtree is reached with no byte consumed), or the
// next byte is a literal '/' (consumed before descending). Anything
// else is not a match and falls through.
func (e *matcherEmitter) emitSeparator(entry trie.Entry[flat.Charlike, flat.FlattenedRoute], depth int) {
	ind := indent(depth)

	fmt.Fprintf(e.buf, "%sif i == len(path) {\n", ind)
	e.emitNode(entry.Node, depth+1)
	fmt.Fprintf(e.buf, "%s} else if path[i] == '/' {\n", ind)
	fmt.Fprintf(e.buf, "%s\ti++\n", ind)
	e.emitNode(entry.Node, depth+1)
	fmt.Fprintf(e.buf, "%s}\n", ind)
}

// emitDispatch writes the method switch at a node whose Data is set: one
// case per method this path actually has a resource for, each building
// that resource's struct from the route/query parameters captured along
// the way. A method this path has no resource for falls through to the
// NotAllowed return after the switch.
func (e *matcherEmitter) emitDispatch(route flat.FlattenedRoute, depth int) {
	ind := indent(depth)
	matchRoute := e.rt("Match[Route]")

	fmt.Fprintf(e.buf, "%sswitch method {\n", ind)
	for _, m := range []config.Method{config.Get, config.Post, config.Put, config.Delete} {
		res := findResource(route.Resources, m)
		if res == nil {
			continue
		}
		fmt.Fprintf(e.buf, "%scase %q:\n", ind, m.String())
		e.emitResourceDispatch(route, *res, depth+1)
	}
	fmt.Fprintf(e.buf, "%s}\n", ind)
	fmt.Fprintf(e.buf, "%sreturn %s{Kind: %s}, nil\n", ind, matchRoute, e.rt("NotAllowed"))
}

func findResource(resources []config.Resource, m config.Method) *config.Resource {
	for i := range resources {
		if resources[i].Method == m {
			return &resources[i]
		}
	}
	return nil
}

func modulePrefix(modules []string) string {
	var b strings.Builder
	for _, m := range modules {
		b.WriteString(ToCapsCase(m))
	}
	return b.String()
}

// emitResourceDispatch parses this resource's route and query parameters
// out of their captured text, then returns the matching struct, wrapped
// in the Variant of each enclosing module, as a Route or a Redirect.
func (e *matcherEmitter) emitResourceDispatch(route flat.FlattenedRoute, resource config.Resource, depth int) {
	ind := indent(depth)
	matchRoute := e.rt("Match[Route]")

	structName := actionStructName(modulePrefix(resource.Modules), resource.Name)
	if resource.IsRedirect {
		structName += "Redirect"
	}

	dynamics := route.Path.Dynamics()
	query := append(append([]config.Param{}, route.QueryParameters...), resource.QueryParameters...)

	var fields []string

	for _, p := range dynamics {
		k := resolveParamType(p.Typ)
		cv := captureVarName(p.Name)
		if k.NeverFails {
			fields = append(fields, fmt.Sprintf("%s: %s", ToCapsCase(p.Name), cv))
			continue
		}

		vv := "v" + ToCapsCase(p.Name)
		fmt.Fprintf(e.buf, "%svar %s %s\n", ind, vv, k.GoType)
		fmt.Fprintf(e.buf, "%s{\n", ind)
		fmt.Fprintf(e.buf, "%s\ttext := %s\n", ind, cv)
		fmt.Fprintf(e.buf, "%s\tparsed, err := %s\n", ind, k.ParseExpr)
		fmt.Fprintf(e.buf, "%s\tif err != nil {\n", ind)
		fmt.Fprintf(e.buf, "%s\t\treturn %s{}, &%s{Param: %q, Cause: err}\n", ind, matchRoute, e.rt("Error"), p.Name)
		fmt.Fprintf(e.buf, "%s\t}\n", ind)
		fmt.Fprintf(e.buf, "%s\t%s = parsed\n", ind, vv)
		fmt.Fprintf(e.buf, "%s}\n", ind)
		fields = append(fields, fmt.Sprintf("%s: %s", ToCapsCase(p.Name), vv))
	}

	for _, p := range query {
		k := resolveParamType(p.Typ)
		vv := "q" + ToCapsCase(p.Name)
		fmt.Fprintf(e.buf, "%svar %s *%s\n", ind, vv, k.GoType)
		fmt.Fprintf(e.buf, "%sif text := query.Get(%q); text != \"\" {\n", ind, p.Name)
		if k.NeverFails {
			fmt.Fprintf(e.buf, "%s\tparsed := %s\n", ind, k.ParseExpr)
			fmt.Fprintf(e.buf, "%s\t%s = &parsed\n", ind, vv)
		} else {
			fmt.Fprintf(e.buf, "%s\tparsed, err := %s\n", ind, k.ParseExpr)
			fmt.Fprintf(e.buf, "%s\tif err != nil {\n", ind)
			fmt.Fprintf(e.buf, "%s\t\treturn %s{}, &%s{Param: %q, Cause: err}\n", ind, matchRoute, e.rt("Error"), p.Name)
			fmt.Fprintf(e.buf, "%s\t}\n", ind)
			fmt.Fprintf(e.buf, "%s\t%s = &parsed\n", ind, vv)
		}
		fmt.Fprintf(e.buf, "%s}\n", ind)
		fields = append(fields, fmt.Sprintf("%s: %s", ToCapsCase(p.Name), vv))
	}

	value := fmt.Sprintf("%s{%s}", structName, strings.Join(fields, ", "))
	for k := len(resource.Modules); k > 0; k-- {
		value = fmt.Sprintf("%s{Route: %s}", variantStructName(modulePrefix(resource.Modules[:k])), value)
	}

	kind := "Route"
	if resource.IsRedirect {
		kind = "Redirect"
	}
	fmt.Fprintf(e.buf, "%sreturn %s[Route](%s), nil\n", ind, e.ctor(kind), value)
}
