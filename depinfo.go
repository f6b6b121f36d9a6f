package solvext

import "strings"

// DependencyInfo describes how to compile and link against one resolved
// library dependency (a BLAS or LAPACK implementation).
//
// All fields are ordered slices and may be empty; an all-empty value is
// a valid resolution meaning "nothing special is needed". Values come
// from one of the resolver tiers (environment override, runtime
// introspection, pkg-config) and are merged into CPU-path extension
// specs during assembly.
type DependencyInfo struct {
	IncludeDirs      []string // -I search paths
	LibraryDirs      []string // -L search paths
	Libraries        []string // -l link inputs
	DefineMacros     []Macro  // Defines required by the dependency
	ExtraCompileArgs []string // Verbatim compiler arguments
	ExtraLinkArgs    []string // Verbatim linker arguments
}

// IsZero reports whether the info carries no build inputs at all.
func (d DependencyInfo) IsZero() bool {
	return len(d.IncludeDirs) == 0 &&
		len(d.LibraryDirs) == 0 &&
		len(d.Libraries) == 0 &&
		len(d.DefineMacros) == 0 &&
		len(d.ExtraCompileArgs) == 0 &&
		len(d.ExtraLinkArgs) == 0
}

// mergeDependencyInfo concatenates the BLAS info followed by the LAPACK
// info, field by field. Order is preserved and duplicates are kept:
// when both slots hold the same info (the environment-override tier
// returns one value for both) the linker simply sees repeated inputs.
func mergeDependencyInfo(blas, lapack DependencyInfo) DependencyInfo {
	return DependencyInfo{
		IncludeDirs:      concatStrings(blas.IncludeDirs, lapack.IncludeDirs),
		LibraryDirs:      concatStrings(blas.LibraryDirs, lapack.LibraryDirs),
		Libraries:        concatStrings(blas.Libraries, lapack.Libraries),
		DefineMacros:     concatMacros(blas.DefineMacros, lapack.DefineMacros),
		ExtraCompileArgs: concatStrings(blas.ExtraCompileArgs, lapack.ExtraCompileArgs),
		ExtraLinkArgs:    concatStrings(blas.ExtraLinkArgs, lapack.ExtraLinkArgs),
	}
}

// hasMKLLibrary reports whether any resolved library name mentions MKL.
// The match is a case-insensitive substring check so names like
// "mkl_rt", "libmkl_intel_lp64" and "MKL" all qualify.
func hasMKLLibrary(infos ...DependencyInfo) bool {
	for _, info := range infos {
		for _, lib := range info.Libraries {
			if strings.Contains(strings.ToLower(lib), "mkl") {
				return true
			}
		}
	}
	return false
}
