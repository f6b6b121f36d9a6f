package solvext

import "time"

// Macro is a single preprocessor define passed to the C toolchain.
//
// A Macro with an empty Value renders as a bare define (-DNAME);
// a non-empty Value renders as -DNAME=VALUE. Macros are carried in
// ordered slices everywhere: definition order is part of the build
// contract and duplicate handling is left to the compiler.
type Macro struct {
	Name  string // Preprocessor symbol (e.g. "DLONG", "PY_GPU")
	Value string // Optional value; empty means a bare define
}

// CompileArg renders the macro as a compiler -D argument.
func (m Macro) CompileArg() string {
	if m.Value == "" {
		return "-D" + m.Name
	}
	return "-D" + m.Name + "=" + m.Value
}

// ExtensionSpec is a complete, self-contained description of one solver
// variant to compile and link.
//
// Specs are produced by AssembleSpecs and consumed by a Toolchain through
// the Coordinator. After handoff to the coordinator a spec is treated as
// read-only; nothing in this package mutates a spec once assembled.
//
// Field semantics:
//   - Sources: C files to compile, deduplicated, deterministic order
//   - Depends: headers whose changes should invalidate objects; passed
//     through to the toolchain, this package does no staleness analysis
//   - DefineMacros: ordered preprocessor defines (see Macro)
//   - IncludeDirs/LibraryDirs/Libraries: -I, -L and -l inputs
//   - ExtraCompileArgs/ExtraLinkArgs: appended verbatim after the
//     generated arguments
type ExtensionSpec struct {
	Name string // Artifact name (solver-direct, solver-gpu, ...)

	Sources []string // C sources, unique, deterministic order
	Depends []string // Headers tracked for rebuild invalidation

	DefineMacros []Macro  // Ordered -D defines
	IncludeDirs  []string // -I search paths
	LibraryDirs  []string // -L search paths
	Libraries    []string // -l link inputs

	ExtraCompileArgs []string // Verbatim extra compiler arguments
	ExtraLinkArgs    []string // Verbatim extra linker arguments
}

// VariantResult records the outcome of building one solver variant.
//
// The coordinator collects one VariantResult per attempted variant so a
// caller can report partial success: some variants built, some failed,
// each with its own captured toolchain output.
type VariantResult struct {
	Variant  string        // Name of the variant (matches ExtensionSpec.Name)
	Success  bool          // True if compile and link completed
	Output   string        // Captured toolchain output (stdout+stderr)
	Artifact string        // Path to the built shared library, if any
	Duration time.Duration // Wall time spent on this variant
	Error    error         // Failure cause, nil on success
}

// BuildOptions controls how the coordinator and toolchain run.
//
// Directory layout:
//   - BuildDir: scratch space for per-variant object files
//   - DestDir: where finished shared libraries are placed
//
// Execution:
//   - Parallel: object compilations per variant run on a worker pool of
//     this size (<= 1 means strictly sequential)
//   - Env: extra environment variables for every toolchain invocation
//
// Failure handling:
//   - FailFast: stop at the first failed variant instead of attempting
//     the rest; a missing compiler always stops the run regardless,
//     since no variant can succeed without one
//   - Verbose: stream toolchain output instead of only capturing it
type BuildOptions struct {
	BuildDir string // Object file scratch directory
	DestDir  string // Destination for built shared libraries

	Parallel int               // Compile jobs per variant (<=1 sequential)
	Env      map[string]string // Extra environment for tool invocations

	FailFast bool // Stop at the first failed variant
	Verbose  bool // Stream compiler output while building
}
