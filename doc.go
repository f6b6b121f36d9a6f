// Package solvext resolves build configuration for the conic solver's
// native extensions and drives a C toolchain to produce them.
//
// It replaces a legacy script-based build with a typed pipeline: parse
// feature flags out of an embedding tool's argument stream, detect
// BLAS/LAPACK linkage, assemble one build spec per solver variant, and
// compile each variant into a shared library.
//
// # Solver Variants
//
// Depending on the feature flags, up to five variants are built:
//   - solver-direct - sparse direct linear system solver (always)
//   - solver-indirect - conjugate-gradient solver (always)
//   - solver-gpu - CUDA indirect solver (--gpu)
//   - solver-mkl - MKL Pardiso direct solver (--mkl)
//   - solver-cudss - NVIDIA cuDSS direct solver (--cudss)
//
// # Basic Usage
//
// Parse flags, resolve dependencies, assemble specs and build:
//
//	flags, remaining := solvext.ParseArgs(os.Args[1:])
//
//	blas, lapack, err := solvext.NewResolver().Resolve()
//	if err != nil {
//	    return err
//	}
//
//	layout, err := solvext.DefaultLayout().Resolve()
//	if err != nil {
//	    return err
//	}
//
//	specs, err := solvext.AssembleSpecs(flags, blas, lapack, layout, solvext.DetectPlatform())
//	if err != nil {
//	    return err
//	}
//
//	coordinator := solvext.NewCoordinator(&solvext.CCToolchain{}, &solvext.BuildOptions{
//	    BuildDir: "build",
//	    DestDir:  "out",
//	})
//	results, err := coordinator.BuildAll(ctx, specs)
//
// The remaining arguments are what an embedding build tool should
// still see; solver flags placed after the --solvext marker never
// reach it.
//
// # Architecture
//
// The pipeline is a straight line with one external-process boundary:
//
//	ParseArgs        (pure, argument stream -> FeatureFlags)
//	Resolver         (environment -> introspection -> pkg-config)
//	AssembleSpecs    (pure, flags + deps + layout -> []ExtensionSpec)
//	Coordinator      (walks specs, per-variant results)
//	└── Toolchain    (compiles and links via the system C compiler)
//
// BLAS/LAPACK detection runs at most once per Resolver and its result
// is merged into every CPU-path variant; the GPU variant links its own
// linear algebra.
//
// # Requirements
//
// Requires Go 1.25 or later and a gcc-compatible C compiler on PATH
// (or named by CC). Detection tiers use python3 and pkg-config when
// present; neither is required.
//
// # Platform Support
//
// Full support on Linux and macOS. Windows builds need a
// gcc-compatible driver (MinGW/MSYS2); the GPU variant additionally
// requires CUDA_PATH there.
package solvext
