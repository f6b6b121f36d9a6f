package solvext

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ToolChecker is an optional interface for toolchains that depend on
// external tools.
//
// A toolchain that implements it gets its tools verified once by the
// coordinator before any variant builds, so a missing compiler is
// reported a single time instead of once per variant. Toolchains that
// don't implement it are used as-is.
type ToolChecker interface {
	// RequiredTools returns the list of tools this toolchain needs.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available.
	// Optional tools don't cause errors if missing.
	CheckTools() error
}

// ToolRequirement describes one external tool the build pipeline needs.
//
// A requirement is satisfied when the primary Name or any of the
// Alternatives is on PATH. Optional requirements are reported but never
// fail a check; they cover tools that only some detection tiers use.
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g. "cc", "pkg-config").
	Name string

	// Alternatives can satisfy the requirement when Name is absent.
	// Example: []string{"gcc", "clang"}
	Alternatives []string

	// Optional requirements are checked and reported but don't fail.
	Optional bool

	// Purpose is a human-readable reason the tool is needed.
	Purpose string
}

// ToolStatus is one row of a tool preflight report: which binary (if
// any) satisfied the requirement and where it was found.
type ToolStatus struct {
	Requirement ToolRequirement
	Found       bool
	Binary      string // Name or alternative that satisfied the requirement
	Path        string // Resolved path of that binary
}

// BuildToolRequirements returns the tool matrix for the solver build:
// a C compiler (honoring the CC override), and the optional detection
// tools used by the pkg-config and introspection tiers.
func BuildToolRequirements() []ToolRequirement {
	compiler := ToolRequirement{
		Name:         "cc",
		Alternatives: []string{"gcc", "clang"},
		Purpose:      "compiles and links the solver variants",
	}
	if override := os.Getenv(EnvCC); override != "" {
		compiler = ToolRequirement{
			Name:    override,
			Purpose: "compiles and links the solver variants (from $" + EnvCC + ")",
		}
	}

	return []ToolRequirement{
		compiler,
		{
			Name:     pkgConfigProgram(),
			Optional: true,
			Purpose:  "BLAS/LAPACK detection, pkg-config tier",
		},
		{
			Name:         "python3",
			Alternatives: []string{"python"},
			Optional:     true,
			Purpose:      "BLAS/LAPACK detection, runtime introspection tier",
		},
	}
}

// CheckToolAvailable checks if a tool is available in the system PATH.
func CheckToolAvailable(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// InspectTools resolves each requirement against PATH for reporting.
// Nothing fails here; the doctor command renders the statuses.
func InspectTools(requirements []ToolRequirement) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(requirements))

	for _, req := range requirements {
		status := ToolStatus{Requirement: req}
		for _, candidate := range append([]string{req.Name}, req.Alternatives...) {
			if path, err := exec.LookPath(candidate); err == nil {
				status.Found = true
				status.Binary = candidate
				status.Path = path
				break
			}
		}
		statuses = append(statuses, status)
	}

	return statuses
}

// CheckRequiredTools verifies all required tools are available.
//
// Each requirement is satisfied by its primary name or any alternative.
// Optional tools never cause an error. All missing required tools are
// reported in a single error so the user fixes them in one pass.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
