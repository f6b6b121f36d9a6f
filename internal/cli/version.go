// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("solvext version " + version)
		fmt.Println("Native extension builder for the conic solver")
		fmt.Println("https://github.com/contriboss/solver-extension-go")
	},
}
