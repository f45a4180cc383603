package routebuild

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ProjectConfig is the shape of a wayfinder.toml file: project-wide
// defaults for the CLI, the way the original's Builder::from_env reads
// Cargo environment variables this module has no equivalent of.
type ProjectConfig struct {
	// RoutesFile is the DSL source the CLI compiles by default.
	RoutesFile string `toml:"routes_file"`
	// OutputFile is where the generated matcher is written by default.
	OutputFile string `toml:"output_file"`
	// PackageName is the package clause of the generated file.
	PackageName string `toml:"package_name"`
	// InlineRuntime mirrors gen.Options.Inline.
	InlineRuntime bool `toml:"inline_runtime"`
	// Headers is read from and written to the file with the other
	// fields; the CLI does not add these lines to the generated file
	// (only the routes file's own header lines end up there).
	Headers []string `toml:"headers"`
}

// DefaultProjectConfig mirrors wayfinder.New()'s own defaults, so a
// project with no wayfinder.toml behaves identically to one that has
// never called LoadProjectConfig at all.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		RoutesFile:  "routes.wf",
		OutputFile:  "routes_gen.go",
		PackageName: "routes",
	}
}

// LoadProjectConfig reads and decodes a wayfinder.toml file. A missing
// file is not an error: it just means the caller should fall back to
// DefaultProjectConfig.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("routebuild: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("routebuild: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// WriteProjectConfig serializes cfg back to TOML and writes it to path,
// for the CLI's init subcommand to seed a new project with.
func WriteProjectConfig(path string, cfg ProjectConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("routebuild: encoding project config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
