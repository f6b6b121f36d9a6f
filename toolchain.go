package solvext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/magefile/mage/sh"
)

// EnvCC overrides which C compiler driver the toolchain invokes.
const EnvCC = "CC"

// Toolchain compiles and links one extension spec into a shared
// library.
//
// # Lifecycle
//
//  1. Build() - the coordinator calls this once per assembled spec
//  2. Clean() - optional removal of objects and artifacts
//
// # Contract
//
// Build must treat the spec as read-only, must capture tool output into
// the returned VariantResult, and must return a result even on failure
// so the coordinator can report partial progress. Cancellation is
// honored between tool invocations: a canceled context stops the
// variant before the next compile or link step starts.
//
// # Thread Safety
//
// Implementations should be stateless; the same toolchain value may
// build several variants over its lifetime.
type Toolchain interface {
	// Name returns the human-readable toolchain name used in logs and
	// error messages.
	Name() string

	// Build compiles and links the spec using opts for directories,
	// parallelism and environment.
	Build(ctx context.Context, spec *ExtensionSpec, opts *BuildOptions) (*VariantResult, error)

	// Clean removes the spec's build artifacts. Missing artifacts are
	// not an error.
	Clean(spec *ExtensionSpec, opts *BuildOptions) error
}

// CCToolchain drives a gcc-compatible C compiler: one -c invocation per
// source into a per-variant object directory, a -shared link, then a
// copy of the artifact into the destination directory.
type CCToolchain struct{}

// Name returns the toolchain name
func (t *CCToolchain) Name() string {
	return "cc"
}

// RequiredTools returns the solver build's tool matrix.
func (t *CCToolchain) RequiredTools() []ToolRequirement {
	return BuildToolRequirements()
}

// CheckTools verifies the required tools, classifying a failure as a
// missing compiler: the compiler is the only non-optional entry in the
// matrix.
func (t *CCToolchain) CheckTools() error {
	if err := CheckRequiredTools(t.RequiredTools()); err != nil {
		return fmt.Errorf("%w: %v", ErrCompilerNotFound, err)
	}
	return nil
}

// compilerProgram picks the compiler driver: the CC environment
// override if set, otherwise the first of cc, gcc, clang on PATH.
// Empty means no compiler was found.
func compilerProgram() string {
	if cc := os.Getenv(EnvCC); cc != "" {
		return cc
	}
	for _, candidate := range []string{"cc", "gcc", "clang"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Build compiles and links one solver variant.
func (t *CCToolchain) Build(ctx context.Context, spec *ExtensionSpec, opts *BuildOptions) (*VariantResult, error) {
	start := time.Now()
	result := &VariantResult{Variant: spec.Name}

	fail := func(err error) (*VariantResult, error) {
		result.Duration = time.Since(start)
		result.Error = err
		return result, err
	}

	cc := compilerProgram()
	if cc == "" {
		return fail(ErrCompilerNotFound)
	}

	objDir := filepath.Join(opts.BuildDir, spec.Name)
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return fail(err)
	}

	log := &toolLog{verbose: opts.Verbose}

	// Step 1: compile every source into an object file.
	objects, err := t.compileObjects(ctx, cc, spec, opts, objDir, log)
	if err != nil {
		result.Output = log.String()
		return fail(VariantError(spec.Name, result.Output, err))
	}

	// Step 2: link the shared library inside the object directory.
	built := filepath.Join(objDir, spec.Name+sharedLibSuffix(runtime.GOOS))
	if err := runTool(opts.Env, log, cc, linkArgs(spec, objects, built)...); err != nil {
		result.Output = log.String()
		return fail(VariantError(spec.Name, result.Output, err))
	}

	// Step 3: place the artifact in the destination directory.
	artifact := built
	if opts.DestDir != "" {
		artifact = filepath.Join(opts.DestDir, filepath.Base(built))
		if err := copyFile(built, artifact); err != nil {
			result.Output = log.String()
			return fail(VariantError(spec.Name, result.Output, err))
		}
	}

	result.Success = true
	result.Output = log.String()
	result.Artifact = artifact
	result.Duration = time.Since(start)
	return result, nil
}

// Clean removes the variant's object directory and its artifact.
func (t *CCToolchain) Clean(spec *ExtensionSpec, opts *BuildOptions) error {
	if err := os.RemoveAll(filepath.Join(opts.BuildDir, spec.Name)); err != nil {
		return err
	}
	if opts.DestDir == "" {
		return nil
	}
	artifact := filepath.Join(opts.DestDir, spec.Name+sharedLibSuffix(runtime.GOOS))
	if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// compileObjects compiles all sources on a bounded worker pool and
// returns the object paths in source order. The first failure wins;
// workers drain without starting new compiles once an error or a
// context cancellation is seen.
func (t *CCToolchain) compileObjects(ctx context.Context, cc string, spec *ExtensionSpec, opts *BuildOptions, objDir string, log *toolLog) ([]string, error) {
	objects := make([]string, len(spec.Sources))
	for i, src := range spec.Sources {
		obj := objectPath(objDir, src)
		if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
			return nil, err
		}
		objects[i] = obj
	}

	jobs := opts.Parallel
	if jobs < 1 {
		jobs = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, jobs)

	for i, src := range spec.Sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(src, obj string) {
			defer wg.Done()
			defer func() { <-sem }()

			mu.Lock()
			stopped := firstErr != nil || ctx.Err() != nil
			mu.Unlock()
			if stopped {
				return
			}

			err := runTool(opts.Env, log, cc, compileArgs(spec, src, obj)...)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(src, objects[i])
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return objects, nil
}

// compileArgs renders the compiler argument list for one source file.
func compileArgs(spec *ExtensionSpec, src, obj string) []string {
	var args []string
	for _, macro := range spec.DefineMacros {
		args = append(args, macro.CompileArg())
	}
	for _, dir := range spec.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	if runtime.GOOS != platformWindows {
		args = append(args, "-fPIC")
	}
	args = append(args, spec.ExtraCompileArgs...)
	return append(args, "-c", src, "-o", obj)
}

// linkArgs renders the linker argument list for the shared library.
func linkArgs(spec *ExtensionSpec, objects []string, out string) []string {
	args := []string{"-shared"}
	if runtime.GOOS == platformDarwin {
		args = append(args, "-Wl,-undefined,dynamic_lookup")
	}
	args = append(args, "-o", out)
	args = append(args, objects...)
	for _, dir := range spec.LibraryDirs {
		args = append(args, "-L"+dir)
	}
	for _, lib := range spec.Libraries {
		args = append(args, "-l"+lib)
	}
	return append(args, spec.ExtraLinkArgs...)
}

// objectPath maps a source file to its object file under objDir,
// mirroring the source tree so same-named files in different
// directories cannot collide.
func objectPath(objDir, src string) string {
	rel := filepath.Clean(src)
	if vol := filepath.VolumeName(rel); vol != "" {
		rel = rel[len(vol):]
	}
	rel = strings.TrimLeft(rel, string(filepath.Separator))
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".o"
	return filepath.Join(objDir, rel)
}

// toolLog accumulates tool output across concurrent invocations.
type toolLog struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	verbose bool
}

func (l *toolLog) append(line string, output []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(line)
	l.buf.WriteByte('\n')
	l.buf.Write(output)
	if l.verbose {
		fmt.Fprintln(os.Stdout, line)
		os.Stdout.Write(output)
	}
}

func (l *toolLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// runTool invokes one external command, recording the command line and
// its combined output in the log.
func runTool(env map[string]string, log *toolLog, cmd string, args ...string) error {
	slog.Debug("running build tool", "cmd", cmd, "args", strings.Join(args, " "))

	var out bytes.Buffer
	_, err := sh.Exec(env, &out, &out, cmd, args...)
	log.append(cmd+" "+strings.Join(args, " "), out.Bytes())
	return err
}
