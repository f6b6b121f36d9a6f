package solvext

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// CUDA library names linked into the GPU variant.
var cudaLibraries = []string{"cudart", "cublas", "cusparse"}

// AssembleSpecs turns feature flags, resolved dependency info and a
// resolved source layout into the ordered list of extension specs to
// build.
//
// The function is pure: identical inputs produce identical specs, and
// neither the environment nor the filesystem is consulted (the layout
// is already resolved, the platform already captured). Variants appear
// in fixed order: direct, indirect, then gpu, mkl and cudss for each
// flag that is set.
//
// Every variant starts from a shared baseline derived from the flags:
//
//   - Macros PYTHON and CTRLC=1 are always present. SFLOAT=1 follows
//     Float32, VERBOSITY=999 follows ExtraVerbose, BLAS64=1 follows
//     BLAS64. DLONG=1 is present iff !Int32 && !GPU: GPU code is always
//     32-bit indexed, and a GPU build keeps index widths consistent
//     across all variants, so the flag removes DLONG everywhere.
//   - -O3 is always compiled in; OpenMP adds -fopenmp to both compile
//     and link arguments.
//   - Linux links librt.
//
// The resolved BLAS/LAPACK info is merged into every CPU-path variant
// (direct, indirect, mkl, cudss) but never into gpu, which brings its
// own linear algebra. When the merged info is non-empty the USE_LAPACK
// macro is defined and the dependency's macros, dirs, libraries and
// extra arguments are appended after the variant's own.
//
// The MKL variant is validated before construction: some resolved
// library name must mention MKL (case-insensitive substring) or
// assembly fails with ErrMissingAcceleratorDependency. The cuDSS
// variant has no equivalent pre-flight check; a missing cuDSS toolkit
// surfaces only when the linker runs.
func AssembleSpecs(flags FeatureFlags, blas, lapack DependencyInfo, layout *ResolvedLayout, plat Platform) ([]*ExtensionSpec, error) {
	base := baseline(flags, layout, plat)
	merged := mergeDependencyInfo(blas, lapack)

	specs := []*ExtensionSpec{
		base.variant(BackendDirect, nil),
		base.variant(BackendIndirect, []Macro{{Name: "PY_INDIRECT"}, {Name: "INDIRECT", Value: "1"}}),
	}

	if flags.GPU {
		gpu, err := base.gpuVariant(flags, plat)
		if err != nil {
			return nil, err
		}
		specs = append(specs, gpu)
	}

	if flags.MKL {
		if !hasMKLLibrary(blas, lapack) {
			return nil, fmt.Errorf("%w: no MKL library in resolved BLAS/LAPACK info; "+
				"install MKL and make sure detection can see it, or point %s and %s at it directly",
				ErrMissingAcceleratorDependency, EnvBLASLAPACKLibPaths, EnvBLASLAPACKLibs)
		}
		specs = append(specs, base.variant(BackendMKL, []Macro{{Name: "PY_MKL"}}))
	}

	if flags.CUDSS {
		slog.Debug("cudss variant has no library pre-flight check; missing cuDSS surfaces at link time")
		specs = append(specs, base.variant(BackendCUDSS, []Macro{{Name: "PY_CUDSS"}}))
	}

	for _, spec := range specs {
		if spec.Name != ArtifactName(BackendGPU) {
			mergeInto(spec, merged)
		}
	}

	return specs, nil
}

// specBaseline carries the per-build shared inputs each variant is
// cloned from.
type specBaseline struct {
	layout      *ResolvedLayout
	macros      []Macro
	libraries   []string
	compileArgs []string
	linkArgs    []string
}

func baseline(flags FeatureFlags, layout *ResolvedLayout, plat Platform) *specBaseline {
	macros := []Macro{{Name: "PYTHON"}, {Name: "CTRLC", Value: "1"}}
	if flags.Float32 {
		macros = append(macros, Macro{Name: "SFLOAT", Value: "1"})
	}
	if flags.ExtraVerbose {
		macros = append(macros, Macro{Name: "VERBOSITY", Value: "999"})
	}
	if flags.BLAS64 {
		macros = append(macros, Macro{Name: "BLAS64", Value: "1"})
	}
	if !flags.Int32 && !flags.GPU {
		macros = append(macros, Macro{Name: "DLONG", Value: "1"})
	}

	compileArgs := []string{"-O3"}
	var linkArgs []string
	if flags.OpenMP {
		compileArgs = append(compileArgs, "-fopenmp")
		linkArgs = append(linkArgs, "-fopenmp")
	}

	var libraries []string
	if plat.OS == platformLinux {
		libraries = append(libraries, "rt")
	}

	return &specBaseline{
		layout:      layout,
		macros:      macros,
		libraries:   libraries,
		compileArgs: compileArgs,
		linkArgs:    linkArgs,
	}
}

// variant builds one CPU-path spec: the shared baseline plus the named
// backend's sources, include dirs and extra macros.
func (b *specBaseline) variant(backend string, extraMacros []Macro) *ExtensionSpec {
	bk := b.layout.Backend(backend)
	return &ExtensionSpec{
		Name:             ArtifactName(backend),
		Sources:          uniqueStrings(concatStrings(b.layout.BaseSources, bk.Sources)),
		Depends:          cloneStrings(b.layout.Depends),
		DefineMacros:     concatMacros(b.macros, extraMacros),
		IncludeDirs:      concatStrings(b.layout.IncludeDirs, bk.IncludeDirs),
		Libraries:        cloneStrings(b.libraries),
		ExtraCompileArgs: cloneStrings(b.compileArgs),
		ExtraLinkArgs:    cloneStrings(b.linkArgs),
	}
}

// gpuVariant builds the CUDA spec. CUDA include and library paths stay
// confined to this spec; on Windows they come from the CUDA_PATH
// environment variable, elsewhere from the conventional
// /usr/local/cuda layout.
func (b *specBaseline) gpuVariant(flags FeatureFlags, plat Platform) (*ExtensionSpec, error) {
	spec := b.variant(BackendGPU, []Macro{{Name: "PY_GPU"}, {Name: "INDIRECT", Value: "1"}})

	if flags.GPUATrans {
		spec.DefineMacros = append(spec.DefineMacros, Macro{Name: "GPU_TRANSPOSE_MAT", Value: "1"})
	}

	if plat.OS == platformWindows {
		if plat.CUDAPath == "" {
			return nil, fmt.Errorf("%w: %s must point at the CUDA toolkit to build the gpu variant on Windows",
				ErrMissingEnvironmentPath, EnvCUDAPath)
		}
		spec.IncludeDirs = append(spec.IncludeDirs, filepath.Join(plat.CUDAPath, "include"))
		spec.LibraryDirs = append(spec.LibraryDirs, filepath.Join(plat.CUDAPath, "lib", "x64"))
	} else {
		spec.IncludeDirs = append(spec.IncludeDirs, "/usr/local/cuda/include")
		spec.LibraryDirs = append(spec.LibraryDirs, "/usr/local/cuda/lib", "/usr/local/cuda/lib64")
	}

	spec.Libraries = append(spec.Libraries, cudaLibraries...)
	return spec, nil
}

// mergeInto appends the merged BLAS/LAPACK info to a CPU-path spec.
// An all-empty merge leaves the spec untouched; otherwise USE_LAPACK
// is defined ahead of the dependency's own macros.
func mergeInto(spec *ExtensionSpec, merged DependencyInfo) {
	if merged.IsZero() {
		return
	}

	spec.DefineMacros = append(spec.DefineMacros, Macro{Name: "USE_LAPACK"})
	spec.DefineMacros = append(spec.DefineMacros, merged.DefineMacros...)
	spec.IncludeDirs = append(spec.IncludeDirs, merged.IncludeDirs...)
	spec.LibraryDirs = append(spec.LibraryDirs, merged.LibraryDirs...)
	spec.Libraries = append(spec.Libraries, merged.Libraries...)
	spec.ExtraCompileArgs = append(spec.ExtraCompileArgs, merged.ExtraCompileArgs...)
	spec.ExtraLinkArgs = append(spec.ExtraLinkArgs, merged.ExtraLinkArgs...)
}
