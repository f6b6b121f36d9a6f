// internal/cli/build.go
package cli

import (
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	solvext "github.com/contriboss/solver-extension-go"
)

// timeRounding trims build durations for display.
const timeRounding = 10 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:   "build [tool options] --solvext [solver flags]",
	Short: "Compile the selected solver variants",
	Long: `Compile every solver variant selected by the feature flags.

Tool options come first; solver feature flags go after the --solvext
marker so the two argument vocabularies never collide:

  solvext build --dest-dir out --solvext --mkl --float32

Tool options:
  --manifest FILE   source layout manifest (default ./solvext.yaml,
                    falling back to the built-in layout)
  --build-dir DIR   object scratch directory (default "build")
  --dest-dir DIR    artifact destination (default "out")
  --parallel N      compile jobs per variant (default 1)
  --fail-fast       stop at the first failed variant
  --dry-run         print the plan without compiling
  --verbose         stream compiler output

Solver flags (after --solvext):
  --gpu --mkl --cudss --openmp --float32 --extraverbose
  --no-gpu-atrans --int32 --blas64`,
	DisableFlagParsing: true,
	RunE:               runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	in, err := parseBuildArgs(cmd, args)
	if err != nil || in == nil {
		return err
	}

	specs, err := assemblePlan(in)
	if err != nil {
		return err
	}

	if in.opts.dryRun {
		printPlan(specs)
		return nil
	}

	coordinator := solvext.NewCoordinator(&solvext.CCToolchain{}, &solvext.BuildOptions{
		BuildDir: in.opts.buildDir,
		DestDir:  in.opts.destDir,
		Parallel: in.opts.parallel,
		FailFast: in.opts.failFast,
		Verbose:  in.opts.verbose,
	})

	results, err := coordinator.BuildAll(cmd.Context(), specs)
	if err != nil && len(results) == 0 {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Success {
			color.Success.Printf("built %s -> %s (%s)\n", result.Variant, result.Artifact, result.Duration.Round(timeRounding))
			continue
		}
		failed++
		color.Danger.Printf("Build failed for %s: %v\n", result.Variant, result.Error)
	}

	if failed > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d variants failed", failed, len(results))}
	}
	return nil
}
