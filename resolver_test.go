package solvext

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// testResolver builds a Resolver with fully faked seams. Seams left nil
// fail the test if they are reached.
func testResolver(t *testing.T, env map[string]string,
	probe func() (DependencyInfo, DependencyInfo, bool, error),
	pkgConfig func(string) (DependencyInfo, error)) *Resolver {
	t.Helper()

	if probe == nil {
		probe = func() (DependencyInfo, DependencyInfo, bool, error) {
			t.Fatal("Expected the runtime probe not to run")
			return DependencyInfo{}, DependencyInfo{}, false, nil
		}
	}
	if pkgConfig == nil {
		pkgConfig = func(pkg string) (DependencyInfo, error) {
			t.Fatalf("Expected pkg-config not to run, got query for %q", pkg)
			return DependencyInfo{}, nil
		}
	}
	return &Resolver{
		getenv:    func(key string) string { return env[key] },
		probe:     probe,
		pkgConfig: pkgConfig,
	}
}

func TestResolverEnvironmentOverride(t *testing.T) {
	sep := string(filepath.ListSeparator)
	env := map[string]string{
		EnvBLASLAPACKLibPaths: "/opt/blis/lib" + sep + "/usr/lib64",
		EnvBLASLAPACKLibs:     "blis:lapack",
	}
	r := testResolver(t, env, nil, nil)

	blas, lapack, err := r.Resolve()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	wantDirs := []string{"/opt/blis/lib", "/usr/lib64"}
	if !reflect.DeepEqual(blas.LibraryDirs, wantDirs) {
		t.Errorf("Expected library dirs %v, got %v", wantDirs, blas.LibraryDirs)
	}
	wantLibs := []string{"blis", "lapack"}
	if !reflect.DeepEqual(blas.Libraries, wantLibs) {
		t.Errorf("Expected libraries %v, got %v", wantLibs, blas.Libraries)
	}
	if !reflect.DeepEqual(blas, lapack) {
		t.Errorf("Expected identical info for both slots, got %+v and %+v", blas, lapack)
	}
	if r.Tier() != TierEnvironment {
		t.Errorf("Expected tier %q, got %q", TierEnvironment, r.Tier())
	}
}

func TestResolverEnvironmentOverridePartial(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"paths only", map[string]string{EnvBLASLAPACKLibPaths: "/opt/lib"}},
		{"libs only", map[string]string{EnvBLASLAPACKLibs: "openblas"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := testResolver(t, tc.env, nil, nil)
			if _, _, err := r.Resolve(); err != nil {
				t.Fatalf("Expected success, got error: %v", err)
			}
			if r.Tier() != TierEnvironment {
				t.Errorf("Expected either variable alone to trigger the override, got tier %q", r.Tier())
			}
		})
	}
}

func TestResolverIntrospectionTier(t *testing.T) {
	wantBlas := DependencyInfo{Libraries: []string{"openblas"}, LibraryDirs: []string{"/usr/lib"}}
	wantLapack := DependencyInfo{Libraries: []string{"lapack"}}
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		return wantBlas, wantLapack, true, nil
	}
	r := testResolver(t, nil, probe, nil)

	blas, lapack, err := r.Resolve()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if !reflect.DeepEqual(blas, wantBlas) || !reflect.DeepEqual(lapack, wantLapack) {
		t.Errorf("Expected probe info passed through, got %+v and %+v", blas, lapack)
	}
	if r.Tier() != TierIntrospection {
		t.Errorf("Expected tier %q, got %q", TierIntrospection, r.Tier())
	}
}

func TestResolverIntrospectionUnavailableFallsThrough(t *testing.T) {
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		return DependencyInfo{}, DependencyInfo{}, false, nil
	}
	var queried []string
	pkgConfig := func(pkg string) (DependencyInfo, error) {
		queried = append(queried, pkg)
		return DependencyInfo{Libraries: []string{pkg}}, nil
	}
	r := testResolver(t, nil, probe, pkgConfig)

	blas, lapack, err := r.Resolve()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	want := []string{"blas", "lapack"}
	if !reflect.DeepEqual(queried, want) {
		t.Errorf("Expected pkg-config queries %v, got %v", want, queried)
	}
	if blas.Libraries[0] != "blas" || lapack.Libraries[0] != "lapack" {
		t.Errorf("Expected per-package info, got %+v and %+v", blas, lapack)
	}
	if r.Tier() != TierPkgConfig {
		t.Errorf("Expected tier %q, got %q", TierPkgConfig, r.Tier())
	}
}

func TestResolverIntrospectionFailureIsFatal(t *testing.T) {
	probeErr := &DetectError{Tool: "python3", Output: "Traceback (most recent call last)"}
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		return DependencyInfo{}, DependencyInfo{}, false, probeErr
	}
	r := testResolver(t, nil, probe, nil)

	_, _, err := r.Resolve()
	if err == nil {
		t.Fatal("Expected a fatal error from the crashed probe")
	}
	if !errors.Is(err, ErrDetectionToolFailure) {
		t.Errorf("Expected ErrDetectionToolFailure, got %v", err)
	}
}

func TestResolverPkgConfigFailureIsFatal(t *testing.T) {
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		return DependencyInfo{}, DependencyInfo{}, false, nil
	}
	pkgConfig := func(pkg string) (DependencyInfo, error) {
		return DependencyInfo{}, &DetectError{
			Tool:    "pkg-config",
			Package: pkg,
			Output:  "Package blas was not found",
			Err:     errors.New("exit status 1"),
		}
	}
	r := testResolver(t, nil, probe, pkgConfig)

	_, _, err := r.Resolve()
	if err == nil {
		t.Fatal("Expected an error from the failed pkg-config query")
	}
	if !errors.Is(err, ErrDetectionToolFailure) {
		t.Errorf("Expected ErrDetectionToolFailure, got %v", err)
	}
	for _, want := range []string{"blas", "was not found"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in the error, got: %v", want, err)
		}
	}
}

func TestResolverCachesResult(t *testing.T) {
	probeCalls := 0
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		probeCalls++
		return DependencyInfo{Libraries: []string{"openblas"}}, DependencyInfo{}, true, nil
	}
	r := testResolver(t, nil, probe, nil)

	first, _, err := r.Resolve()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	second, _, err := r.Resolve()
	if err != nil {
		t.Fatalf("Expected cached success, got error: %v", err)
	}

	if probeCalls != 1 {
		t.Errorf("Expected exactly one probe invocation, got %d", probeCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical cached info, got %+v then %+v", first, second)
	}
}

func TestResolverCachesError(t *testing.T) {
	calls := 0
	probe := func() (DependencyInfo, DependencyInfo, bool, error) {
		calls++
		return DependencyInfo{}, DependencyInfo{}, false, &DetectError{Tool: "python3"}
	}
	r := testResolver(t, nil, probe, nil)

	_, _, first := r.Resolve()
	_, _, second := r.Resolve()

	if calls != 1 {
		t.Errorf("Expected the failing cascade to run once, got %d runs", calls)
	}
	if first == nil || second == nil || !errors.Is(second, ErrDetectionToolFailure) {
		t.Errorf("Expected the error to be memoized, got %v then %v", first, second)
	}
}

func TestSplitNonEmpty(t *testing.T) {
	testCases := []struct {
		input string
		sep   string
		want  []string
	}{
		{"a:b:c", ":", []string{"a", "b", "c"}},
		{"a::c", ":", []string{"a", "c"}},
		{":", ":", nil},
		{"", ":", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := splitNonEmpty(tc.input, tc.sep)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}
