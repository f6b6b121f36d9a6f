package solvext

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestUniqueStrings(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{"removes duplicates", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"drops empties", []string{"", "a", "", "b"}, []string{"a", "b"}},
		{"keeps first occurrence order", []string{"z", "a", "z"}, []string{"z", "a"}},
		{"empty input", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := uniqueStrings(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestConcatStringsDoesNotAlias(t *testing.T) {
	a := make([]string, 1, 4)
	a[0] = "first"
	out := concatStrings(a, []string{"second"})

	out = append(out, "third")
	_ = out
	if len(a) != 1 || a[0] != "first" {
		t.Errorf("Expected the input untouched, got %v", a)
	}
}

func TestCloneStringsNil(t *testing.T) {
	if got := cloneStrings(nil); got != nil {
		t.Errorf("Expected nil to stay nil, got %v", got)
	}
}

func TestSharedLibSuffix(t *testing.T) {
	testCases := []struct {
		goos string
		want string
	}{
		{"windows", ".dll"},
		{"darwin", ".dylib"},
		{"linux", ".so"},
		{"freebsd", ".so"},
	}

	for _, tc := range testCases {
		t.Run(tc.goos, func(t *testing.T) {
			if got := sharedLibSuffix(tc.goos); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.so")
	if err := os.WriteFile(src, []byte("artifact bytes"), 0o755); err != nil {
		t.Fatalf("Failed to create source file: %v", err)
	}

	dest := filepath.Join(tmpDir, "nested", "out", "dest.so")
	if err := copyFile(src, dest); err != nil {
		t.Fatalf("Expected copy to succeed, got error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(data) != "artifact bytes" {
		t.Errorf("Expected content copied verbatim, got %q", data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		if err != nil {
			t.Fatalf("Failed to stat destination: %v", err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Errorf("Expected the execute bit preserved, got mode %v", info.Mode())
		}
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	err := copyFile(filepath.Join(tmpDir, "missing.so"), filepath.Join(tmpDir, "dest.so"))
	if err == nil {
		t.Error("Expected an error for a missing source file")
	}
}
