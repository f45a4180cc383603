// Package routebuild is the programmatic alternative to routeparse: a
// small set of constructor functions that assemble a config.RouteConfig
// directly in Go, for callers who would rather build their route table
// as code than as a parsed text file. It stands in for the original's
// get!/post!/put!/delete!/param!/header! declarative macros, which Go
// has no equivalent of; these are just functions.
package routebuild

import "github.com/couchand/wayfinder-go/internal/config"

// Param declares a named, typed parameter, usable as either a path
// capture or a query parameter depending on where it is used.
func Param(name, typ string) config.Param { return config.NewParam(name, typ) }

// Header declares a line pasted verbatim into the generated file's
// prologue.
func Header(text string) config.Header { return config.NewHeader(text) }

func resource(m config.Method, redirect bool, handler string, params ...config.Param) config.Resource {
	modules, name := splitHandler(handler)
	return config.Resource{
		Method:          m,
		Modules:         modules,
		Name:            name,
		IsRedirect:      redirect,
		QueryParameters: params,
	}
}

// splitHandler divides a "Module::SubModule::Name" handler identity into
// its module path and its bare name.
func splitHandler(handler string) (modules []string, name string) {
	parts := splitPath(handler)
	if len(parts) == 0 {
		return nil, handler
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

func splitPath(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			out = append(out, s[start:i])
			start = i + 2
			i++
		}
	}
	out = append(out, s[start:])
	return out
}

// Get declares a resource answering GET requests.
func Get(handler string, params ...config.Param) config.Resource {
	return resource(config.Get, false, handler, params...)
}

// Post declares a resource answering POST requests.
func Post(handler string, params ...config.Param) config.Resource {
	return resource(config.Post, false, handler, params...)
}

// Put declares a resource answering PUT requests.
func Put(handler string, params ...config.Param) config.Resource {
	return resource(config.Put, false, handler, params...)
}

// Delete declares a resource answering DELETE requests.
func Delete(handler string, params ...config.Param) config.Resource {
	return resource(config.Delete, false, handler, params...)
}

// Redirect declares a resource that matches but never dispatches to a
// handler of its own — the generated matcher reports it with
// wayfinder.RedirectKind instead of wayfinder.RouteKind.
func Redirect(m config.Method, handler string, params ...config.Param) config.Resource {
	return resource(m, true, handler, params...)
}

// Static builds a literal path segment.
func Static(s string) config.PathSegment { return config.StaticSegment(s) }

// Dynamic builds a typed capturing path segment.
func Dynamic(p config.Param) config.PathSegment { return config.DynamicSegment(p) }

// Routes is a fluent builder for one config.Routes block — the root
// block, or the block nested under one path segment.
type Routes struct {
	routes config.Routes
}

// NewRoutes starts a Routes block, optionally declaring query
// parameters every resource beneath it inherits.
func NewRoutes(params ...config.Param) *Routes {
	return &Routes{routes: config.Routes{QueryParameters: params}}
}

// Resource attaches one or more resources directly to this block.
func (b *Routes) Resource(resources ...config.Resource) *Routes {
	b.routes.Resources = append(b.routes.Resources, resources...)
	return b
}

// Mount nests another Routes block under a path segment.
func (b *Routes) Mount(segment config.PathSegment, nested *Routes) *Routes {
	b.routes.Routes = append(b.routes.Routes, config.NestedRoutes{
		PathSegment: segment,
		Routes:      nested.Build(),
	})
	return b
}

// Build finalizes the block.
func (b *Routes) Build() config.Routes { return b.routes }

// Config is a fluent builder for a complete config.RouteConfig.
type Config struct {
	cfg config.RouteConfig
}

// NewConfig starts a RouteConfig with the given header lines.
func NewConfig(headers ...config.Header) *Config {
	return &Config{cfg: config.RouteConfig{Headers: headers}}
}

// Routes sets the root Routes block.
func (c *Config) Routes(routes *Routes) *Config {
	c.cfg.Routes = routes.Build()
	return c
}

// Build finalizes the configuration.
func (c *Config) Build() config.RouteConfig { return c.cfg }
