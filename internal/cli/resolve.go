// internal/cli/resolve.go
package cli

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	solvext "github.com/contriboss/solver-extension-go"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Detect BLAS/LAPACK linkage and report the result",
	Long: `Run the dependency detection cascade (environment override,
runtime introspection, pkg-config) and print what the solver variants
would link against.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	resolver := solvext.NewResolver()
	blas, lapack, err := resolver.Resolve()
	if err != nil {
		return err
	}

	color.Bold.Printf("tier: %s\n", resolver.Tier())
	printDependencyInfo("blas", blas)
	printDependencyInfo("lapack", lapack)
	return nil
}

func printDependencyInfo(name string, info solvext.DependencyInfo) {
	color.Info.Printf("%s:\n", name)
	if info.IsZero() {
		fmt.Println("  (empty)")
		return
	}

	printList := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Printf("  %s %s\n", label, strings.Join(values, " "))
		}
	}
	printList("libraries:   ", info.Libraries)
	printList("library dirs:", info.LibraryDirs)
	printList("include dirs:", info.IncludeDirs)
	printList("cflags:      ", info.ExtraCompileArgs)
	printList("ldflags:     ", info.ExtraLinkArgs)

	if len(info.DefineMacros) > 0 {
		macros := make([]string, 0, len(info.DefineMacros))
		for _, m := range info.DefineMacros {
			macros = append(macros, m.CompileArg())
		}
		fmt.Printf("  macros:       %s\n", strings.Join(macros, " "))
	}
}
