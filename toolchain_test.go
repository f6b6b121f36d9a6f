package solvext

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestCCToolchainName(t *testing.T) {
	toolchain := &CCToolchain{}
	if toolchain.Name() != "cc" {
		t.Errorf("Expected cc, got %s", toolchain.Name())
	}
}

func TestCompileArgs(t *testing.T) {
	spec := &ExtensionSpec{
		Name:             "solver-direct",
		DefineMacros:     []Macro{{Name: "PYTHON"}, {Name: "CTRLC", Value: "1"}},
		IncludeDirs:      []string{"solver_source/include"},
		ExtraCompileArgs: []string{"-O3"},
	}

	got := compileArgs(spec, "solver_source/src/solver.c", "build/solver.o")

	want := []string{"-DPYTHON", "-DCTRLC=1", "-Isolver_source/include"}
	if runtime.GOOS != "windows" {
		want = append(want, "-fPIC")
	}
	want = append(want, "-O3", "-c", "solver_source/src/solver.c", "-o", "build/solver.o")

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected args %v, got %v", want, got)
	}
}

func TestLinkArgs(t *testing.T) {
	spec := &ExtensionSpec{
		Name:          "solver-direct",
		LibraryDirs:   []string{"/usr/lib64"},
		Libraries:     []string{"rt", "openblas"},
		ExtraLinkArgs: []string{"-fopenmp"},
	}
	objects := []string{"build/a.o", "build/b.o"}

	got := linkArgs(spec, objects, "build/solver-direct.so")

	want := []string{"-shared"}
	if runtime.GOOS == "darwin" {
		want = append(want, "-Wl,-undefined,dynamic_lookup")
	}
	want = append(want, "-o", "build/solver-direct.so", "build/a.o", "build/b.o",
		"-L/usr/lib64", "-lrt", "-lopenblas", "-fopenmp")

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected args %v, got %v", want, got)
	}
}

func TestObjectPath(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "relative source mirrors the tree",
			src:  filepath.Join("solver_source", "src", "solver.c"),
			want: filepath.Join("build", "solver-direct", "solver_source", "src", "solver.o"),
		},
		{
			name: "absolute source loses its leading separator",
			src:  string(filepath.Separator) + filepath.Join("opt", "tree", "solver.c"),
			want: filepath.Join("build", "solver-direct", "opt", "tree", "solver.o"),
		},
		{
			name: "same base name in different dirs stays distinct",
			src:  filepath.Join("solver_source", "linsys", "cpu", "direct", "private.c"),
			want: filepath.Join("build", "solver-direct", "solver_source", "linsys", "cpu", "direct", "private.o"),
		},
	}

	objDir := filepath.Join("build", "solver-direct")
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := objectPath(objDir, tc.src); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCompilerProgramOverride(t *testing.T) {
	t.Setenv(EnvCC, "x86_64-linux-musl-gcc")

	if got := compilerProgram(); got != "x86_64-linux-musl-gcc" {
		t.Errorf("Expected the CC override, got %q", got)
	}
}

func TestCCToolchainRequiredTools(t *testing.T) {
	t.Setenv(EnvCC, "")

	tools := (&CCToolchain{}).RequiredTools()
	if len(tools) == 0 {
		t.Fatal("Expected at least one required tool")
	}

	compiler := tools[0]
	if compiler.Optional {
		t.Error("Expected the compiler requirement to be mandatory")
	}
	if compiler.Name != "cc" || !reflect.DeepEqual(compiler.Alternatives, []string{"gcc", "clang"}) {
		t.Errorf("Expected cc with gcc/clang alternatives, got %+v", compiler)
	}

	for _, tool := range tools[1:] {
		if !tool.Optional {
			t.Errorf("Expected only the compiler to be mandatory, %s is not optional", tool.Name)
		}
	}
}

func TestToolLog(t *testing.T) {
	log := &toolLog{}
	log.append("cc -c solver.c", []byte("solver.c:1: warning: unused\n"))
	log.append("cc -shared -o solver.so", nil)

	out := log.String()
	for _, want := range []string{"cc -c solver.c", "warning: unused", "cc -shared"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, out)
		}
	}
}
