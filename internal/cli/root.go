// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

// ExitError carries the process exit code the CLI should terminate
// with. Code 2 is reserved for usage errors.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "solvext",
	Short: "Build the conic solver's native extensions",
	Long: `solvext - native extension builder for the conic solver

Resolves BLAS/LAPACK linkage, assembles one build spec per solver
variant (direct, indirect, gpu, mkl, cudss) and drives the system C
compiler to produce the shared libraries.

Global flags must precede the subcommand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with interrupt-aware context, so a
// Ctrl-C stops the build between tool invocations.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging(logLevel, logFormat)
	}

	// Add commands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(specsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
