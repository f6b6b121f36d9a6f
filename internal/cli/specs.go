// internal/cli/specs.go
package cli

import (
	"github.com/spf13/cobra"
)

var specsCmd = &cobra.Command{
	Use:   "specs [tool options] --solvext [solver flags]",
	Short: "Print the assembled variant plan without building",
	Long: `Resolve dependencies and assemble the variant build specs, then
print them instead of compiling. Takes the same arguments as build;
accelerator validation (such as the MKL presence check) still runs, so
a plan that prints here is a plan that would start building.`,
	DisableFlagParsing: true,
	RunE:               runSpecs,
}

func runSpecs(cmd *cobra.Command, args []string) error {
	in, err := parseBuildArgs(cmd, args)
	if err != nil || in == nil {
		return err
	}

	specs, err := assemblePlan(in)
	if err != nil {
		return err
	}

	printPlan(specs)
	return nil
}
