// wayfinder is the compiler's CLI tool: point it at a routes file and
// it writes the generated matcher next to it, or watches the file and
// regenerates on every change.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"github.com/couchand/wayfinder-go/internal/diagnostics"
	"github.com/couchand/wayfinder-go/internal/routebuild"
	"github.com/couchand/wayfinder-go/internal/routeparse"
	wayfinder "github.com/couchand/wayfinder-go"
)

const projectConfigFile = "wayfinder.toml"

const version = "0.1.0"

// exitConfigError is the exit code for any failure the Builder itself
// reports (a bad routes file, a write failure) — distinct from 1, which
// covers CLI misuse (bad flags, unknown subcommand).
const exitConfigError = 101

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	buildInput := buildCmd.String("in", "", "Routes file to compile (default from wayfinder.toml or routes.wf)")
	buildOutput := buildCmd.String("o", "", "Generated output file (default from wayfinder.toml or routes_gen.go)")
	buildPackage := buildCmd.String("pkg", "", "Package name of the generated file (default from wayfinder.toml or routes)")
	buildInline := buildCmd.Bool("inline-runtime", false, "Copy the runtime types into the generated file instead of importing pkg/wayfinder")
	buildVerbose := buildCmd.Bool("v", false, "Verbose logging")

	watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
	watchInput := watchCmd.String("in", "", "Routes file to compile (default from wayfinder.toml or routes.wf)")
	watchOutput := watchCmd.String("o", "", "Generated output file (default from wayfinder.toml or routes_gen.go)")
	watchPackage := watchCmd.String("pkg", "", "Package name of the generated file (default from wayfinder.toml or routes)")
	watchInline := watchCmd.Bool("inline-runtime", false, "Copy the runtime types into the generated file instead of importing pkg/wayfinder")
	watchVerbose := watchCmd.Bool("v", false, "Verbose logging")

	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	initName := initCmd.String("name", "routes.wf", "Routes file to scaffold")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		buildCmd.Parse(os.Args[2:])
		configureLogging(*buildVerbose)
		proj := resolveProjectConfig(*buildInput, *buildOutput, *buildPackage, *buildInline)
		if err := runBuild(proj.RoutesFile, proj.OutputFile, proj.PackageName, proj.InlineRuntime); err != nil {
			log.Error().Err(err).Msg("build failed")
			os.Exit(exitConfigError)
		}

	case "watch":
		watchCmd.Parse(os.Args[2:])
		configureLogging(*watchVerbose)
		proj := resolveProjectConfig(*watchInput, *watchOutput, *watchPackage, *watchInline)
		if err := runWatch(proj.RoutesFile, proj.OutputFile, proj.PackageName, proj.InlineRuntime); err != nil {
			log.Error().Err(err).Msg("watch failed")
			os.Exit(exitConfigError)
		}

	case "version":
		versionCmd.Parse(os.Args[2:])
		fmt.Printf("wayfinder version %s\n", version)
		if mod, err := detectModulePath("."); err == nil {
			fmt.Printf("module: %s\n", mod)
		}

	case "init":
		initCmd.Parse(os.Args[2:])
		if err := runInit(*initName); err != nil {
			fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
			os.Exit(exitConfigError)
		}

	case "help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// resolveProjectConfig loads wayfinder.toml from the working directory
// (falling back to routebuild.DefaultProjectConfig if absent) and layers
// any explicitly passed flags on top of it — an empty flag value means
// "use the project config".
func resolveProjectConfig(in, out, pkg string, inline bool) routebuild.ProjectConfig {
	proj, err := routebuild.LoadProjectConfig(projectConfigFile)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable wayfinder.toml")
		proj = routebuild.DefaultProjectConfig()
	}

	if in != "" {
		proj.RoutesFile = in
	}
	if out != "" {
		proj.OutputFile = out
	}
	if pkg != "" {
		proj.PackageName = pkg
	}
	if inline {
		proj.InlineRuntime = true
	}
	return proj
}

// detectModulePath reports the current Go module's import path, the way
// goxc's init subcommand reported the project name it was scaffolding
// into.
func detectModulePath(dir string) (string, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedModule, Dir: dir}, ".")
	if err != nil {
		return "", fmt.Errorf("wayfinder: loading module info: %w", err)
	}
	for _, p := range pkgs {
		if p.Module != nil {
			return p.Module.Path, nil
		}
	}
	return "", fmt.Errorf("wayfinder: no module found in %s", dir)
}

func configureLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func printUsage() {
	fmt.Println(`wayfinder - a route matcher compiler

Usage:
  wayfinder <command> [options]

Commands:
  build    Compile a routes file to a generated Go matcher
  watch    Rebuild whenever the routes file changes
  init     Scaffold a starter routes file
  version  Show version information
  help     Show this help message

Build/Watch Options (each falls back to wayfinder.toml, then a built-in
default, when left unset):
  -in              Routes file to compile [default: routes.wf]
  -o               Generated output file [default: routes_gen.go]
  -pkg             Package name of the generated file [default: routes]
  -inline-runtime  Copy runtime types into the generated file
  -v               Verbose logging

Examples:
  wayfinder build -in=routes.wf -o=routes_gen.go
  wayfinder watch -in=routes.wf -pkg=myroutes
  wayfinder init -name=routes.wf`)
}

func runBuild(input, output, pkg string, inline bool) error {
	log.Debug().Str("input", input).Str("output", output).Msg("building routes")

	err := wayfinder.New().
		InputFile(input).
		OutputFile(output).
		PackageName(pkg).
		InlineRuntime(inline).
		Build()
	if err != nil {
		reportParseError(input, err)
		return err
	}

	log.Info().Str("output", output).Msg("wrote generated matcher")
	return nil
}

// reportParseError re-reads the input file to render a caret-pointer
// diagnostic when the failure came from routeparse; any other failure
// is printed as a plain "error:" line. Nothing is printed if the input
// file cannot be read.
func reportParseError(input string, err error) {
	source, readErr := os.ReadFile(input)
	if readErr != nil {
		return
	}
	diagnostics.Show(os.Stderr, string(source), err)
}

func runWatch(input, output, pkg string, inline bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("wayfinder: starting watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("wayfinder: watching %s: %w", dir, err)
	}

	if err := runBuild(input, output, pkg, inline); err != nil {
		log.Error().Err(err).Msg("initial build failed, watching anyway")
	}

	log.Info().Str("file", input).Msg("watching for changes, press Ctrl+C to stop")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(input) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runBuild(input, output, pkg, inline); err != nil {
				log.Error().Err(err).Msg("rebuild failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func runInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wayfinder: %s already exists", path)
	}

	const starter = "/\n  GET Index\n"
	if err := os.WriteFile(path, []byte(starter), 0o644); err != nil {
		return fmt.Errorf("wayfinder: writing %s: %w", path, err)
	}

	if _, err := routeparse.ParseString(starter); err != nil {
		return fmt.Errorf("wayfinder: scaffolded file does not parse: %w", err)
	}

	proj := routebuild.DefaultProjectConfig()
	proj.RoutesFile = path
	if _, err := os.Stat(projectConfigFile); os.IsNotExist(err) {
		if err := routebuild.WriteProjectConfig(projectConfigFile, proj); err != nil {
			return fmt.Errorf("wayfinder: seeding %s: %w", projectConfigFile, err)
		}
		fmt.Printf("Scaffolded %s and %s\n", path, projectConfigFile)
	} else {
		fmt.Printf("Scaffolded %s\n", path)
	}

	return nil
}
