package solvext

import (
	"reflect"
	"testing"
)

func TestParsePkgConfigFlags(t *testing.T) {
	testCases := []struct {
		name   string
		output string
		want   DependencyInfo
	}{
		{
			name:   "typical blas output",
			output: "-I/usr/include/openblas -L/usr/lib64 -lopenblas\n",
			want: DependencyInfo{
				IncludeDirs: []string{"/usr/include/openblas"},
				LibraryDirs: []string{"/usr/lib64"},
				Libraries:   []string{"openblas"},
			},
		},
		{
			name:   "separated prefix tokens",
			output: "-I /opt/include -L /opt/lib -l blas",
			want: DependencyInfo{
				IncludeDirs: []string{"/opt/include"},
				LibraryDirs: []string{"/opt/lib"},
				Libraries:   []string{"blas"},
			},
		},
		{
			name:   "unrelated flags are dropped",
			output: "-pthread -fopenmp -lblas -Wl,--no-as-needed",
			want: DependencyInfo{
				Libraries: []string{"blas"},
			},
		},
		{
			name:   "multiple libraries keep order",
			output: "-llapack -lblas -lm",
			want: DependencyInfo{
				Libraries: []string{"lapack", "blas", "m"},
			},
		},
		{
			name:   "empty output",
			output: "\n",
			want:   DependencyInfo{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parsePkgConfigFlags(tc.output)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestPkgConfigProgramOverride(t *testing.T) {
	t.Setenv("PKG_CONFIG", "/opt/cross/bin/pkg-config")

	if got := pkgConfigProgram(); got != "/opt/cross/bin/pkg-config" {
		t.Errorf("Expected the PKG_CONFIG override, got %q", got)
	}
}

func TestPkgConfigProgramDefault(t *testing.T) {
	t.Setenv("PKG_CONFIG", "")

	if got := pkgConfigProgram(); got != "pkg-config" {
		t.Errorf("Expected pkg-config, got %q", got)
	}
}
