package solvext

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes the build pipeline can hit.
// Callers classify failures with errors.Is against these.
var (
	// ErrDetectionToolFailure indicates an external detection tool
	// (pkg-config, the runtime introspection probe) ran and failed.
	ErrDetectionToolFailure = errors.New("dependency detection tool failed")

	// ErrMissingAcceleratorDependency indicates a requested accelerated
	// variant cannot be built because its library stack was not found.
	ErrMissingAcceleratorDependency = errors.New("accelerator dependency not found")

	// ErrMissingEnvironmentPath indicates a required path-bearing
	// environment variable is unset on a platform that needs it.
	ErrMissingEnvironmentPath = errors.New("required environment variable not set")

	// ErrInvalidFlagCombination indicates mutually inconsistent options
	// were requested at the tool layer.
	ErrInvalidFlagCombination = errors.New("invalid flag combination")

	// ErrCompilerNotFound indicates no usable C compiler is on PATH.
	// This is a shared precondition: no variant can build without one.
	ErrCompilerNotFound = errors.New("no C compiler found")

	// ErrNoSources indicates a variant resolved to an empty source list,
	// usually a wrong source_root or an unvendored solver tree.
	ErrNoSources = errors.New("variant has no sources")
)

// DetectError wraps a failed external detection tool invocation with the
// tool name, the package being probed and the tool's raw output.
//
// It matches ErrDetectionToolFailure under errors.Is, and the underlying
// process error remains reachable through errors.Unwrap chains.
type DetectError struct {
	Tool    string // Tool that failed (pkg-config, python3, ...)
	Package string // Package being probed (blas, lapack), may be empty
	Output  string // Raw combined output from the tool
	Err     error  // Underlying process error
}

func (e *DetectError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Tool)
	if e.Package != "" {
		fmt.Fprintf(&b, " for %q", e.Package)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, "\n\nTool output:\n%s", out)
	}
	return b.String()
}

func (e *DetectError) Unwrap() error { return e.Err }

// Is reports ErrDetectionToolFailure so callers can classify without
// caring which tool died.
func (e *DetectError) Is(target error) bool {
	return target == ErrDetectionToolFailure
}

// VariantError formats a toolchain failure for one variant, including the
// captured compiler output when there is any. The underlying error stays
// reachable through errors.Is/As.
func VariantError(variant string, output string, err error) error {
	out := strings.TrimSpace(output)
	switch {
	case err != nil && out != "":
		return fmt.Errorf("building %s failed: %w\n\nToolchain output:\n%s", variant, err, out)
	case err != nil:
		return fmt.Errorf("building %s failed: %w", variant, err)
	case out != "":
		return fmt.Errorf("building %s failed\n\nToolchain output:\n%s", variant, out)
	default:
		return fmt.Errorf("building %s failed", variant)
	}
}
