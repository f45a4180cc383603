// Package wayfinder is the top-level façade over the compiler pipeline:
// read a route configuration (from a textual DSL file or built
// programmatically), run it through internal/flat and internal/gen, and
// write the generated matcher to a file. It is meant to be driven from a
// go:generate directive or a small main package.
package wayfinder

import (
	"fmt"
	"os"

	"github.com/couchand/wayfinder-go/internal/config"
	"github.com/couchand/wayfinder-go/internal/gen"
	"github.com/couchand/wayfinder-go/internal/routeparse"
)

// Builder accumulates the settings for one code generation run. Its
// zero value is not ready to use; start from New or FromEnv.
type Builder struct {
	inputFile     string
	inputConfig   *config.RouteConfig
	outputFile    string
	packageName   string
	inlineRuntime bool
	runtimeImport string
}

// New starts a Builder with this module's defaults: input routes.wf,
// output routes_gen.go, package name "routes".
func New() *Builder {
	return &Builder{
		inputFile:   "routes.wf",
		outputFile:  "routes_gen.go",
		packageName: "routes",
	}
}

// FromEnv starts a Builder the way New does, but picks up the package
// name go generate exports as GOPACKAGE when present, so a go:generate
// directive placed in the target package needs no further
// configuration.
func FromEnv() *Builder {
	b := New()
	if pkg := os.Getenv("GOPACKAGE"); pkg != "" {
		b.packageName = pkg
	}
	return b
}

// InputFile sets the textual route DSL file to read. Clears any
// previously set InputConfig.
func (b *Builder) InputFile(path string) *Builder {
	b.inputFile = path
	b.inputConfig = nil
	return b
}

// InputConfig sets the configuration directly, bypassing routeparse
// entirely — for callers building their route table with
// internal/routebuild (or their own logic) instead of a text file.
func (b *Builder) InputConfig(cfg config.RouteConfig) *Builder {
	b.inputConfig = &cfg
	b.inputFile = ""
	return b
}

// OutputFile sets the path the generated Go source is written to.
func (b *Builder) OutputFile(path string) *Builder {
	b.outputFile = path
	return b
}

// PackageName sets the package clause of the generated file.
func (b *Builder) PackageName(name string) *Builder {
	b.packageName = name
	return b
}

// InlineRuntime controls whether the generated file imports
// pkg/wayfinder or copies the equivalent declarations into itself.
func (b *Builder) InlineRuntime(inline bool) *Builder {
	b.inlineRuntime = inline
	return b
}

// RuntimeImport overrides the import path used for the runtime types
// when InlineRuntime is false. Mostly useful for callers who have
// forked pkg/wayfinder under their own module path.
func (b *Builder) RuntimeImport(path string) *Builder {
	b.runtimeImport = path
	return b
}

// Build loads the configuration (from InputFile or InputConfig),
// generates the matcher, and writes it to OutputFile.
func (b *Builder) Build() error {
	cfg, err := b.loadConfig()
	if err != nil {
		return err
	}

	out, err := os.Create(b.outputFile)
	if err != nil {
		return fmt.Errorf("wayfinder: opening output file: %w", err)
	}
	defer out.Close()

	opts := gen.Options{
		PackageName:   b.packageName,
		RuntimeImport: b.runtimeImport,
		Inline:        b.inlineRuntime,
	}
	if err := gen.Codegen(out, cfg, opts); err != nil {
		return fmt.Errorf("wayfinder: %s: %w", b.inputFile, err)
	}
	return nil
}

func (b *Builder) loadConfig() (config.RouteConfig, error) {
	if b.inputConfig != nil {
		return *b.inputConfig, nil
	}

	f, err := os.Open(b.inputFile)
	if err != nil {
		return config.RouteConfig{}, fmt.Errorf("wayfinder: opening %s: %w", b.inputFile, err)
	}
	defer f.Close()

	cfg, err := routeparse.Parse(f)
	if err != nil {
		return config.RouteConfig{}, fmt.Errorf("wayfinder: %s: %w", b.inputFile, err)
	}
	return cfg, nil
}
