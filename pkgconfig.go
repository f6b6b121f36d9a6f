package solvext

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/magefile/mage/sh"
)

// pkgConfigProgram returns the pkg-config executable to use, honoring
// the PKG_CONFIG environment override.
func pkgConfigProgram() string {
	if prog := os.Getenv("PKG_CONFIG"); prog != "" {
		return prog
	}
	return "pkg-config"
}

// queryPkgConfig asks pkg-config for the compile and link flags of one
// package. Any failure to run the tool, including a missing binary or a
// nonzero exit for an unknown package, is fatal and carries the raw
// tool output for diagnosis.
func queryPkgConfig(pkg string) (DependencyInfo, error) {
	prog := pkgConfigProgram()

	var stdout, stderr bytes.Buffer
	if _, err := sh.Exec(nil, &stdout, &stderr, prog, "--cflags", "--libs", pkg); err != nil {
		return DependencyInfo{}, &DetectError{
			Tool:    prog,
			Package: pkg,
			Output:  stdout.String() + stderr.String(),
			Err:     err,
		}
	}

	return parsePkgConfigFlags(stdout.String()), nil
}

// parsePkgConfigFlags splits pkg-config output into whitespace tokens
// and routes them by prefix: -I to include dirs, -L to library dirs,
// -l to libraries. A bare prefix token takes the next token as its
// value. Anything else is not part of the dependency contract and is
// dropped with a debug log.
func parsePkgConfigFlags(output string) DependencyInfo {
	var info DependencyInfo

	fields := strings.Fields(output)
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if (tok == "-I" || tok == "-L" || tok == "-l") && i+1 < len(fields) {
			i++
			tok += fields[i]
		}
		switch {
		case strings.HasPrefix(tok, "-I"):
			info.IncludeDirs = append(info.IncludeDirs, tok[2:])
		case strings.HasPrefix(tok, "-L"):
			info.LibraryDirs = append(info.LibraryDirs, tok[2:])
		case strings.HasPrefix(tok, "-l"):
			info.Libraries = append(info.Libraries, tok[2:])
		default:
			slog.Debug("ignoring pkg-config token", "token", tok)
		}
	}

	return info
}
