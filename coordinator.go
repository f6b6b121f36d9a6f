package solvext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Coordinator walks an ordered list of assembled extension specs and
// builds each one through a Toolchain, collecting per-variant results.
//
// # Usage
//
//	coordinator := solvext.NewCoordinator(&solvext.CCToolchain{}, opts)
//	results, err := coordinator.BuildAll(ctx, specs)
//
// # Failure Handling
//
// One variant failing to compile does not invalidate the others: the
// coordinator records the failure and moves on, and the caller reports
// partial success from the results. Options.FailFast stops the walk at
// the first failed variant instead.
//
// Shared preconditions are different: when no C compiler exists, no
// variant can succeed, so the run stops with a single error instead of
// one identical failure per variant.
type Coordinator struct {
	Toolchain Toolchain
	Options   *BuildOptions
}

// NewCoordinator creates a coordinator for the given toolchain and
// options.
func NewCoordinator(toolchain Toolchain, opts *BuildOptions) *Coordinator {
	return &Coordinator{Toolchain: toolchain, Options: opts}
}

// BuildAll builds every spec in order.
//
// Before the first variant it validates the shared preconditions: the
// toolchain's required tools exist, the build and destination
// directories are creatable, and every selected variant resolved at
// least one source file.
//
// Returns one VariantResult per attempted variant and the first error
// encountered (if any). Even on error the results slice holds partial
// results for the variants that were processed. Context cancellation
// stops the walk between variants with a context error result.
func (c *Coordinator) BuildAll(ctx context.Context, specs []*ExtensionSpec) ([]*VariantResult, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	if err := c.checkPreconditions(specs); err != nil {
		return nil, err
	}

	var results []*VariantResult
	var firstError error

	for _, spec := range specs {
		// Check for context cancellation
		if ctxErr := ctx.Err(); ctxErr != nil {
			if firstError == nil {
				firstError = ctxErr
			}
			results = append(results, &VariantResult{
				Variant: spec.Name,
				Error:   ctxErr,
			})
			break
		}

		slog.Debug("building variant", "variant", spec.Name, "sources", len(spec.Sources))

		result, err := c.Toolchain.Build(ctx, spec, c.Options)
		if err != nil {
			if firstError == nil {
				firstError = err
			}
			// Ensure we have a result even if the toolchain didn't return one
			if result == nil {
				result = &VariantResult{
					Variant: spec.Name,
					Error:   err,
				}
			}
		}

		results = append(results, result)

		if !result.Success {
			// A missing compiler fails every later variant the same
			// way; report it once and stop.
			if errors.Is(result.Error, ErrCompilerNotFound) {
				break
			}
			if c.Options.FailFast {
				break
			}
		}
	}

	return results, firstError
}

// CleanAll removes build artifacts for every spec, continuing past
// individual failures and returning the first one.
func (c *Coordinator) CleanAll(specs []*ExtensionSpec) error {
	var firstError error
	for _, spec := range specs {
		if err := c.Toolchain.Clean(spec, c.Options); err != nil && firstError == nil {
			firstError = err
		}
	}
	return firstError
}

// checkPreconditions validates everything that would fail every
// variant identically, so the failure is reported once.
func (c *Coordinator) checkPreconditions(specs []*ExtensionSpec) error {
	if checker, ok := c.Toolchain.(ToolChecker); ok {
		if err := checker.CheckTools(); err != nil {
			return err
		}
	}

	for _, spec := range specs {
		if len(spec.Sources) == 0 {
			return fmt.Errorf("%w: %s matched no files, check the layout's source_root", ErrNoSources, spec.Name)
		}
	}

	if c.Options.BuildDir != "" {
		if err := os.MkdirAll(c.Options.BuildDir, 0o755); err != nil {
			return fmt.Errorf("creating build dir: %w", err)
		}
	}
	if c.Options.DestDir != "" {
		if err := os.MkdirAll(c.Options.DestDir, 0o755); err != nil {
			return fmt.Errorf("creating destination dir: %w", err)
		}
	}

	return nil
}
