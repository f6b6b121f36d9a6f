package solvext

// ArgMarker is the marker token that separates host-tool arguments from
// solver feature flags inside a shared argument stream.
//
// Embedders that forward their own argument list to another build tool
// place the marker after the arguments that tool should see:
//
//	host-tool-arg... --solvext --gpu --float32
//
// ParseArgs slices everything from the marker onward out of the remaining
// arguments, so the downstream tool never sees solver-specific flags.
const ArgMarker = "--solvext"

// FeatureFlags selects which solver variants to build and how the solver
// core is compiled.
//
// The value is immutable once parsed: every field is resolved before any
// resolution or assembly step runs, and flags are never re-read from the
// environment afterwards. All fields are independent booleans; coupling
// between them (such as GPU forcing 32-bit indices) is assembly policy,
// not parsing policy.
//
// Note the one inverted default: GPUATrans starts true and is turned off
// with --no-gpu-atrans. Construct FeatureFlags through ParseArgs or
// DefaultFlags so the default is applied; the zero value has it false.
type FeatureFlags struct {
	GPU          bool // Build the CUDA variant (solver-gpu)
	MKL          bool // Build the MKL variant (solver-mkl)
	CUDSS        bool // Build the cuDSS variant (solver-cudss)
	OpenMP       bool // Compile and link with OpenMP support
	Float32      bool // Use 32-bit floats in the solver core
	ExtraVerbose bool // Compile the solver core at maximum verbosity
	GPUATrans    bool // Keep the transposed GPU matrix (default true)
	Int32        bool // Use 32-bit integer indices on CPU paths
	BLAS64       bool // BLAS/LAPACK libraries use 64-bit integers
}

// DefaultFlags returns the flag set with all features off and defaults
// applied (GPUATrans on).
func DefaultFlags() FeatureFlags {
	return FeatureFlags{GPUATrans: true}
}

// ParseArgs extracts solver feature flags from a raw argument list and
// returns the arguments a downstream build tool should still see.
//
// Recognized flags are honored wherever they appear in the stream. The
// remaining list is determined solely by the marker token: when ArgMarker
// is present, remaining is the portion strictly before its first
// occurrence (the marker itself is dropped); when absent, remaining is
// the input unchanged. Recognized flags are not removed from remaining —
// callers that need a clean downstream argument list must place solver
// flags after the marker.
//
// Unknown tokens are never an error. The input slice is not modified and
// the returned slice never aliases it.
func ParseArgs(args []string) (FeatureFlags, []string) {
	flags := DefaultFlags()

	markerAt := -1
	for i, arg := range args {
		if arg == ArgMarker {
			if markerAt < 0 {
				markerAt = i
			}
			continue
		}
		applyToken(&flags, arg)
	}

	var remaining []string
	if markerAt >= 0 {
		remaining = append(remaining, args[:markerAt]...)
	} else {
		remaining = append(remaining, args...)
	}
	return flags, remaining
}

// applyToken updates flags for a single recognized token; unrecognized
// tokens are ignored.
func applyToken(flags *FeatureFlags, token string) {
	switch token {
	case "--gpu":
		flags.GPU = true
	case "--mkl":
		flags.MKL = true
	case "--cudss":
		flags.CUDSS = true
	case "--openmp":
		flags.OpenMP = true
	case "--float32":
		flags.Float32 = true
	case "--extraverbose":
		flags.ExtraVerbose = true
	case "--no-gpu-atrans":
		flags.GPUATrans = false
	case "--int32":
		flags.Int32 = true
	case "--blas64":
		flags.BLAS64 = true
	}
}
