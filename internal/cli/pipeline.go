// internal/cli/pipeline.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	solvext "github.com/contriboss/solver-extension-go"
)

// defaultManifest is picked up from the working directory when no
// --manifest is given.
const defaultManifest = "solvext.yaml"

// toolOptions are the build tool's own options, parsed from the
// arguments before the --solvext marker.
type toolOptions struct {
	manifest string
	buildDir string
	destDir  string
	parallel int
	failFast bool
	verbose  bool
	dryRun   bool
}

// buildInputs is everything the build and specs commands need after
// argument parsing.
type buildInputs struct {
	flags solvext.FeatureFlags
	opts  toolOptions
}

// parseBuildArgs splits a raw argument list the way an embedding build
// tool would see it: solver feature flags are honored anywhere, and
// everything before the --solvext marker is parsed as tool options.
//
// Returns (nil, nil) when help was requested and printed.
func parseBuildArgs(cmd *cobra.Command, args []string) (*buildInputs, error) {
	flags, remaining := solvext.ParseArgs(args)

	in := &buildInputs{flags: flags}
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(cmd.ErrOrStderr())
	fs.StringVar(&in.opts.manifest, "manifest", "", "source layout manifest file")
	fs.StringVar(&in.opts.buildDir, "build-dir", "build", "object scratch directory")
	fs.StringVar(&in.opts.destDir, "dest-dir", "out", "artifact destination directory")
	fs.IntVar(&in.opts.parallel, "parallel", 1, "compile jobs per variant")
	fs.BoolVar(&in.opts.failFast, "fail-fast", false, "stop at the first failed variant")
	fs.BoolVar(&in.opts.verbose, "verbose", false, "stream compiler output")
	fs.BoolVar(&in.opts.dryRun, "dry-run", false, "print the plan without compiling")

	if err := fs.Parse(remaining); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			_ = cmd.Help()
			return nil, nil
		}
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("%s: %v (solver flags go after %s)", cmd.Name(), err, solvext.ArgMarker)}
	}
	if fs.NArg() > 0 {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("%s: unexpected arguments: %s", cmd.Name(), strings.Join(fs.Args(), " "))}
	}

	return in, nil
}

// assemblePlan runs the front half of the pipeline: dependency
// resolution, layout loading and variant assembly.
func assemblePlan(in *buildInputs) ([]*solvext.ExtensionSpec, error) {
	resolver := solvext.NewResolver()
	blas, lapack, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}
	color.Info.Printf("BLAS/LAPACK resolved via %s tier\n", resolver.Tier())

	layout, err := loadResolvedLayout(in.opts.manifest)
	if err != nil {
		return nil, err
	}

	return solvext.AssembleSpecs(in.flags, blas, lapack, layout, solvext.DetectPlatform())
}

// loadResolvedLayout loads the manifest (explicit path, then
// ./solvext.yaml, then the built-in layout) and expands its globs.
func loadResolvedLayout(path string) (*solvext.ResolvedLayout, error) {
	layout := solvext.DefaultLayout()

	switch {
	case path != "":
		l, err := solvext.LoadLayout(path)
		if err != nil {
			return nil, err
		}
		layout = l
	default:
		if _, err := os.Stat(defaultManifest); err == nil {
			l, err := solvext.LoadLayout(defaultManifest)
			if err != nil {
				return nil, err
			}
			layout = l
		}
	}

	return layout.Resolve()
}

// printPlan renders the assembled variant plan without building.
func printPlan(specs []*solvext.ExtensionSpec) {
	for _, spec := range specs {
		color.Bold.Printf("%s\n", spec.Name)
		fmt.Printf("  sources:  %d files\n", len(spec.Sources))

		macros := make([]string, 0, len(spec.DefineMacros))
		for _, m := range spec.DefineMacros {
			macros = append(macros, m.CompileArg())
		}
		fmt.Printf("  macros:   %s\n", strings.Join(macros, " "))

		if len(spec.IncludeDirs) > 0 {
			fmt.Printf("  includes: %s\n", strings.Join(spec.IncludeDirs, " "))
		}
		if len(spec.LibraryDirs) > 0 {
			fmt.Printf("  libdirs:  %s\n", strings.Join(spec.LibraryDirs, " "))
		}
		if len(spec.Libraries) > 0 {
			fmt.Printf("  links:    %s\n", strings.Join(spec.Libraries, " "))
		}
		if len(spec.ExtraCompileArgs) > 0 {
			fmt.Printf("  cflags:   %s\n", strings.Join(spec.ExtraCompileArgs, " "))
		}
		if len(spec.ExtraLinkArgs) > 0 {
			fmt.Printf("  ldflags:  %s\n", strings.Join(spec.ExtraLinkArgs, " "))
		}
	}
}
