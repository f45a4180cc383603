// Package routeparse reads the textual route DSL into a config.RouteConfig.
//
// A routes file is a run of header lines (anything before the lone "/"
// line), then a tree of resources and nested path segments indented two
// spaces per level — the exact shape config.RouteConfig.Stringify
// produces, so that parsing and stringifying round-trip.
package routeparse

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/couchand/wayfinder-go/internal/config"
)

var (
	queryParamPattern = regexp.MustCompile(`^\[\s*([^:\]]+?)\s*:\s*([^:\]]+?)\s*\]$`)
	dynamicSegPattern = regexp.MustCompile(`^\{\s*([^:}]+?)\s*:\s*([^:}]+?)\s*\}$`)
	methodWordPattern = regexp.MustCompile(`^([A-Za-z]+)(\s*->)?\s+(.*)$`)
)

// Error is a parse failure anchored to a specific source line, so a
// caller can point the user at exactly where the input went wrong.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("routeparse: line %d: %s", e.Line, e.Message)
}

// Parse reads a complete routes file from r.
func Parse(r io.Reader) (config.RouteConfig, error) {
	s := newLineScanner(r)

	var headers []config.Header
	for {
		l, err := s.peek()
		if err != nil {
			return config.RouteConfig{}, err
		}
		if l == nil {
			return config.RouteConfig{}, &Error{Line: s.number, Message: "expected a `/` line starting the route tree, found end of input"}
		}
		if l.level != 0 {
			return config.RouteConfig{}, &Error{Line: l.number, Message: "header lines must not be indented"}
		}
		if l.text == "/" {
			s.next()
			break
		}
		headers = append(headers, config.NewHeader(l.text))
		s.next()
	}

	routes, err := parseRoutes(s, 1)
	if err != nil {
		return config.RouteConfig{}, err
	}

	if l, _ := s.peek(); l != nil {
		return config.RouteConfig{}, &Error{Line: l.number, Message: "unexpected indentation after the route tree"}
	}

	return config.RouteConfig{Headers: headers, Routes: routes}, nil
}

// ParseString is a convenience wrapper around Parse for callers that
// already have the whole file in memory.
func ParseString(s string) (config.RouteConfig, error) {
	return Parse(strings.NewReader(s))
}

func parseRoutes(s *lineScanner, level int) (config.Routes, error) {
	var routes config.Routes

	for {
		l, err := s.peek()
		if err != nil {
			return routes, err
		}
		if l == nil || l.level < level {
			return routes, nil
		}
		if l.level > level {
			return routes, &Error{Line: l.number, Message: "unexpected indentation"}
		}

		if m := queryParamPattern.FindStringSubmatch(l.text); m != nil {
			routes.QueryParameters = append(routes.QueryParameters, config.NewParam(m[1], m[2]))
			s.next()
			continue
		}

		if isResourceLine(l.text) {
			resource, err := parseResource(s, level)
			if err != nil {
				return routes, err
			}
			routes.Resources = append(routes.Resources, resource)
			continue
		}

		segment, err := parsePathSegment(l.text)
		if err != nil {
			return routes, &Error{Line: l.number, Message: err.Error()}
		}
		s.next()

		nested, err := parseRoutes(s, level+1)
		if err != nil {
			return routes, err
		}
		routes.Routes = append(routes.Routes, config.NestedRoutes{PathSegment: segment, Routes: nested})
	}
}

func isResourceLine(text string) bool {
	m := methodWordPattern.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	_, err := config.ParseMethod(m[1])
	return err == nil
}

func parseResource(s *lineScanner, level int) (config.Resource, error) {
	l, err := s.next()
	if err != nil {
		return config.Resource{}, err
	}

	m := methodWordPattern.FindStringSubmatch(l.text)
	if m == nil {
		return config.Resource{}, &Error{Line: l.number, Message: "expected a resource line"}
	}

	method, err := config.ParseMethod(m[1])
	if err != nil {
		return config.Resource{}, &Error{Line: l.number, Message: err.Error()}
	}

	isRedirect := strings.TrimSpace(m[2]) == "->"
	handler := strings.TrimSpace(m[3])
	parts := strings.Split(handler, "::")
	for _, p := range parts {
		if !config.IsIdentifier(p) {
			return config.Resource{}, &Error{Line: l.number, Message: fmt.Sprintf("invalid handler identifier %q", p)}
		}
	}

	resource := config.Resource{
		Method:     method,
		Modules:    parts[:len(parts)-1],
		Name:       parts[len(parts)-1],
		IsRedirect: isRedirect,
	}

	for {
		next, err := s.peek()
		if err != nil {
			return resource, err
		}
		if next == nil || next.level != level+1 {
			break
		}
		m := queryParamPattern.FindStringSubmatch(next.text)
		if m == nil {
			break
		}
		resource.QueryParameters = append(resource.QueryParameters, config.NewParam(m[1], m[2]))
		s.next()
	}

	return resource, nil
}

func parsePathSegment(text string) (config.PathSegment, error) {
	if m := dynamicSegPattern.FindStringSubmatch(text); m != nil {
		return config.DynamicSegment(config.NewParam(m[1], m[2])), nil
	}
	if strings.ContainsAny(text, "{}[]") {
		return config.PathSegment{}, fmt.Errorf("malformed path segment %q", text)
	}
	return config.StaticSegment(text), nil
}

// Write renders cfg back to its textual form, byte for byte what Parse
// would need to read to reconstruct it.
func Write(w io.Writer, cfg config.RouteConfig) error {
	var buf bytes.Buffer
	buf.WriteString(cfg.Stringify())
	_, err := w.Write(buf.Bytes())
	return err
}
