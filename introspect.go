package solvext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/sh"
)

// EnvProbeInterpreter overrides which interpreter runs the scientific
// runtime introspection probe.
const EnvProbeInterpreter = "SOLVEXT_PYTHON"

// probeUnavailableExit is the exit code the probe uses to signal that
// the runtime or its build-info registry is not importable. It is
// distinct from a crash so the resolver can fall through instead of
// failing the whole detection.
const probeUnavailableExit = 3

// runtimeProbeScript interrogates the scientific runtime's build-info
// registry: optimized BLAS first with a generic BLAS fallback, same for
// LAPACK, emitted as one JSON object on stdout.
const runtimeProbeScript = `
import json, sys
try:
    from numpy.distutils.system_info import get_info
except Exception:
    sys.exit(3)

def pick(name):
    info = get_info(name + "_opt")
    if not info:
        info = get_info(name)
    return info or {}

json.dump({"blas": pick("blas"), "lapack": pick("lapack")}, sys.stdout)
`

// probeInterpreter locates the interpreter for the introspection probe:
// the SOLVEXT_PYTHON override if set, otherwise the first of python3,
// python found on PATH.
func probeInterpreter() (string, bool) {
	if p := os.Getenv(EnvProbeInterpreter); p != "" {
		return p, true
	}
	for _, candidate := range []string{"python3", "python"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, true
		}
	}
	return "", false
}

// probeRuntimeInfo runs the introspection probe and parses its output.
//
// ok=false with a nil error means the tier is unavailable (no
// interpreter, or the registry is not importable) and the caller should
// fall through to the next tier. Any other probe failure is fatal.
func probeRuntimeInfo() (blas, lapack DependencyInfo, ok bool, err error) {
	interp, found := probeInterpreter()
	if !found {
		return DependencyInfo{}, DependencyInfo{}, false, nil
	}

	var stdout, stderr bytes.Buffer
	if _, runErr := sh.Exec(nil, &stdout, &stderr, interp, "-c", runtimeProbeScript); runErr != nil {
		if !sh.CmdRan(runErr) || sh.ExitStatus(runErr) == probeUnavailableExit {
			return DependencyInfo{}, DependencyInfo{}, false, nil
		}
		return DependencyInfo{}, DependencyInfo{}, false, &DetectError{
			Tool:   interp,
			Output: stdout.String() + stderr.String(),
			Err:    runErr,
		}
	}

	var payload struct {
		Blas   probeInfo `json:"blas"`
		Lapack probeInfo `json:"lapack"`
	}
	if decErr := json.Unmarshal(stdout.Bytes(), &payload); decErr != nil {
		return DependencyInfo{}, DependencyInfo{}, false, &DetectError{
			Tool:   interp,
			Output: stdout.String(),
			Err:    fmt.Errorf("decoding probe output: %w", decErr),
		}
	}

	return payload.Blas.toDependencyInfo(), payload.Lapack.toDependencyInfo(), true, nil
}

// probeInfo mirrors one build-info dictionary from the probe output.
// Every field is optional; macros arrive as [name, value-or-null] pairs.
type probeInfo struct {
	LibraryDirs      []string `json:"library_dirs"`
	IncludeDirs      []string `json:"include_dirs"`
	Libraries        []string `json:"libraries"`
	DefineMacros     [][]any  `json:"define_macros"`
	ExtraCompileArgs []string `json:"extra_compile_args"`
	ExtraLinkArgs    []string `json:"extra_link_args"`
}

func (p probeInfo) toDependencyInfo() DependencyInfo {
	info := DependencyInfo{
		IncludeDirs:      p.IncludeDirs,
		LibraryDirs:      p.LibraryDirs,
		Libraries:        p.Libraries,
		ExtraCompileArgs: p.ExtraCompileArgs,
		ExtraLinkArgs:    p.ExtraLinkArgs,
	}
	for _, pair := range p.DefineMacros {
		if len(pair) == 0 {
			continue
		}
		macro := Macro{Name: fmt.Sprint(pair[0])}
		if len(pair) > 1 && pair[1] != nil {
			macro.Value = fmt.Sprint(pair[1])
		}
		info.DefineMacros = append(info.DefineMacros, macro)
	}
	return info
}
