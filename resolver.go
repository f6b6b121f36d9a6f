package solvext

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Environment variables for the override tier. Setting either one
// short-circuits all detection: the build links exactly what the
// environment says, nothing is probed.
const (
	// EnvBLASLAPACKLibPaths lists library directories, separated by the
	// OS path-list separator (':' on Unix, ';' on Windows).
	EnvBLASLAPACKLibPaths = "BLAS_LAPACK_LIB_PATHS"

	// EnvBLASLAPACKLibs lists library names to link, separated by ':'.
	EnvBLASLAPACKLibs = "BLAS_LAPACK_LIBS"
)

// Detection tier names reported by Resolver.Tier.
const (
	TierEnvironment   = "environment"
	TierIntrospection = "introspection"
	TierPkgConfig     = "pkg-config"
)

// Resolver locates the BLAS and LAPACK libraries the solver links
// against, trying three tiers in fixed order:
//
//  1. Environment override: EnvBLASLAPACKLibPaths / EnvBLASLAPACKLibs.
//     No external process runs; both slots receive the identical info.
//  2. Scientific runtime introspection: a probe under the host's
//     interpreter asks the runtime's build-info registry (optimized
//     BLAS with generic fallback, same for LAPACK). Unavailable
//     runtime means fall through, a crashed probe is fatal.
//  3. pkg-config for the "blas" and "lapack" packages. Any tool
//     failure here is fatal; there is nothing left to fall back to.
//
// Resolution runs at most once per Resolver: the first Resolve call
// executes the cascade and every later call returns the memoized pair,
// including a memoized error. A Resolver is safe for concurrent use.
type Resolver struct {
	getenv    func(string) string
	probe     func() (blas, lapack DependencyInfo, ok bool, err error)
	pkgConfig func(pkg string) (DependencyInfo, error)

	once   sync.Once
	blas   DependencyInfo
	lapack DependencyInfo
	tier   string
	err    error
}

// NewResolver returns a Resolver wired to the real environment and
// external tools.
func NewResolver() *Resolver {
	return &Resolver{
		getenv:    os.Getenv,
		probe:     probeRuntimeInfo,
		pkgConfig: queryPkgConfig,
	}
}

// Resolve returns the BLAS and LAPACK dependency info, running the
// detection cascade on first call and the cache afterwards.
func (r *Resolver) Resolve() (blas, lapack DependencyInfo, err error) {
	r.once.Do(func() {
		r.blas, r.lapack, r.tier, r.err = r.runCascade()
		if r.err == nil {
			slog.Debug("resolved BLAS/LAPACK linkage",
				"tier", r.tier,
				"blasLibs", r.blas.Libraries,
				"lapackLibs", r.lapack.Libraries)
		}
	})
	return r.blas, r.lapack, r.err
}

// Tier reports which detection tier produced the cached result. Empty
// until Resolve has run.
func (r *Resolver) Tier() string { return r.tier }

func (r *Resolver) runCascade() (DependencyInfo, DependencyInfo, string, error) {
	// Tier 1: environment override.
	if info, ok := r.envOverride(); ok {
		return info, info, TierEnvironment, nil
	}

	// Tier 2: runtime introspection.
	blas, lapack, ok, err := r.probe()
	if err != nil {
		return DependencyInfo{}, DependencyInfo{}, TierIntrospection, err
	}
	if ok {
		return blas, lapack, TierIntrospection, nil
	}

	// Tier 3: pkg-config.
	blas, err = r.pkgConfig("blas")
	if err != nil {
		return DependencyInfo{}, DependencyInfo{}, TierPkgConfig, err
	}
	lapack, err = r.pkgConfig("lapack")
	if err != nil {
		return DependencyInfo{}, DependencyInfo{}, TierPkgConfig, err
	}
	return blas, lapack, TierPkgConfig, nil
}

// envOverride builds the override tier's info. The tier applies when
// either variable is set; the unset one simply contributes nothing.
func (r *Resolver) envOverride() (DependencyInfo, bool) {
	libPaths := r.getenv(EnvBLASLAPACKLibPaths)
	libs := r.getenv(EnvBLASLAPACKLibs)
	if libPaths == "" && libs == "" {
		return DependencyInfo{}, false
	}

	return DependencyInfo{
		LibraryDirs: splitNonEmpty(libPaths, string(filepath.ListSeparator)),
		Libraries:   splitNonEmpty(libs, ":"),
	}, true
}

// splitNonEmpty splits s on sep and drops empty elements.
func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
