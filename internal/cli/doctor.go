// internal/cli/doctor.go
package cli

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	solvext "github.com/contriboss/solver-extension-go"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the build environment is usable",
	Long: `Inspect the host for the tools the build pipeline uses: the C
compiler, the optional detection tools, and the CUDA toolkit paths the
gpu variant would need.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	statuses := solvext.InspectTools(solvext.BuildToolRequirements())

	missingRequired := 0
	for _, status := range statuses {
		req := status.Requirement
		switch {
		case status.Found:
			color.Success.Printf("ok       %-12s %s\n", status.Binary, status.Path)
		case req.Optional:
			color.Warn.Printf("missing  %-12s optional, %s\n", req.Name, req.Purpose)
		default:
			missingRequired++
			color.Danger.Printf("missing  %-12s %s\n", req.Name, req.Purpose)
		}
	}

	plat := solvext.DetectPlatform()
	fmt.Printf("platform %s\n", plat.OS)
	switch {
	case plat.CUDAPath != "":
		color.Success.Printf("cuda     %s (from %s)\n", plat.CUDAPath, solvext.EnvCUDAPath)
	default:
		if _, err := os.Stat("/usr/local/cuda"); err == nil {
			color.Success.Printf("cuda     /usr/local/cuda\n")
		} else {
			color.Note.Printf("cuda     not found (only needed for --gpu and --cudss)\n")
		}
	}

	if missingRequired > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d required tools missing", missingRequired)}
	}
	return nil
}
