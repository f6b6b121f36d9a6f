package solvext

import (
	"io"
	"os"
	"path/filepath"
)

// concatStrings returns a fresh slice holding a followed by b.
// The inputs are never aliased, so callers may keep appending safely.
func concatStrings(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// concatMacros returns a fresh slice holding a followed by b.
func concatMacros(a, b []Macro) []Macro {
	out := make([]Macro, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// cloneStrings returns a copy of values that shares no backing array
// with the input. A nil input stays nil.
func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append(make([]string, 0, len(values)), values...)
}

// uniqueStrings removes empty entries and duplicates, preserving the
// first occurrence order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}

// sharedLibSuffix returns the shared library filename suffix for the
// given GOOS value (.dll on Windows, .dylib on macOS, .so elsewhere).
func sharedLibSuffix(goos string) string {
	switch goos {
	case platformWindows:
		return ".dll"
	case platformDarwin:
		return ".dylib"
	default:
		return ".so"
	}
}

// copyFile copies srcPath to destPath, creating parent directories and
// preserving the source file mode.
func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
