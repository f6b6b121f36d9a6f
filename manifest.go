package solvext

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names used as keys in the source layout manifest and as the
// suffix of the built artifact names.
const (
	BackendDirect   = "direct"
	BackendIndirect = "indirect"
	BackendGPU      = "gpu"
	BackendMKL      = "mkl"
	BackendCUDSS    = "cudss"
)

// ArtifactName returns the artifact name for a backend
// (e.g. "solver-direct" for the direct backend).
func ArtifactName(backend string) string {
	return "solver-" + backend
}

// BackendLayout lists the extra sources and include directories one
// solver backend adds on top of the shared base.
type BackendLayout struct {
	Sources     []string `yaml:"sources"`      // Glob patterns relative to source_root
	IncludeDirs []string `yaml:"include_dirs"` // Directories relative to source_root
}

// SourceLayout describes where the solver's C sources live.
//
// The layout is data, not code: it is loaded from a YAML manifest
// (conventionally solvext.yaml next to the solver tree) or taken from
// DefaultLayout, which matches the upstream solver's directory
// structure. All patterns and directories are relative to SourceRoot.
type SourceLayout struct {
	SourceRoot  string                   `yaml:"source_root"`  // Root of the solver source tree
	BaseSources []string                 `yaml:"base_sources"` // Glob patterns shared by every variant
	IncludeDirs []string                 `yaml:"include_dirs"` // Shared include directories
	Depends     []string                 `yaml:"depends"`      // Header globs tracked for rebuilds
	Backends    map[string]BackendLayout `yaml:"backends"`     // Per-backend additions
}

// DefaultLayout returns the layout of the upstream solver source tree.
func DefaultLayout() *SourceLayout {
	return &SourceLayout{
		SourceRoot:  "solver_source",
		BaseSources: []string{"src/*.c", "linsys/*.c"},
		IncludeDirs: []string{"include", "linsys"},
		Depends:     []string{"include/*.h", "linsys/*.h"},
		Backends: map[string]BackendLayout{
			BackendDirect: {
				Sources: []string{
					"linsys/cpu/direct/*.c",
					"linsys/external/qdldl/*.c",
					"linsys/external/amd/*.c",
				},
				IncludeDirs: []string{
					"linsys/cpu/direct",
					"linsys/external/amd",
					"linsys/external/qdldl",
				},
			},
			BackendIndirect: {
				Sources:     []string{"linsys/cpu/indirect/*.c"},
				IncludeDirs: []string{"linsys/cpu/indirect"},
			},
			BackendGPU: {
				Sources: []string{
					"linsys/gpu/*.c",
					"linsys/gpu/indirect/*.c",
				},
				IncludeDirs: []string{"linsys/gpu", "linsys/gpu/indirect"},
			},
			BackendMKL: {
				Sources:     []string{"linsys/mkl/direct/*.c"},
				IncludeDirs: []string{"linsys/mkl/direct"},
			},
			BackendCUDSS: {
				Sources:     []string{"linsys/cudss/direct/*.c"},
				IncludeDirs: []string{"linsys/cudss/direct"},
			},
		},
	}
}

// LoadLayout reads a source layout manifest from a YAML file.
//
// Decoding is strict: unknown keys are an error, so typos in a manifest
// fail loudly instead of silently dropping sources.
func LoadLayout(path string) (*SourceLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout manifest: %w", err)
	}

	var layout SourceLayout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layout); err != nil {
		return nil, fmt.Errorf("parsing layout manifest %s: %w", path, err)
	}

	if layout.SourceRoot == "" {
		return nil, fmt.Errorf("layout manifest %s: source_root is required", path)
	}
	return &layout, nil
}

// ResolvedBackend holds a backend's concrete file lists after glob
// expansion.
type ResolvedBackend struct {
	Sources     []string // Concrete C files, unique, deterministic order
	IncludeDirs []string // Include directories joined with the root
}

// ResolvedLayout is a SourceLayout with every glob expanded into
// concrete file paths. Variant assembly consumes only resolved layouts,
// which keeps it free of filesystem access.
type ResolvedLayout struct {
	Root        string
	BaseSources []string
	IncludeDirs []string
	Depends     []string
	Backends    map[string]ResolvedBackend
}

// Resolve expands the layout's glob patterns against the filesystem.
//
// Patterns that match nothing resolve to empty lists; whether that is
// fatal depends on which variants are selected, so the coordinator
// checks per-spec. Expansion is deterministic: glob results are sorted
// by the matcher and duplicates are removed keeping first occurrence.
func (l *SourceLayout) Resolve() (*ResolvedLayout, error) {
	base, err := expandGlobs(l.SourceRoot, l.BaseSources)
	if err != nil {
		return nil, err
	}
	depends, err := expandGlobs(l.SourceRoot, l.Depends)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedLayout{
		Root:        l.SourceRoot,
		BaseSources: base,
		IncludeDirs: joinDirs(l.SourceRoot, l.IncludeDirs),
		Depends:     depends,
		Backends:    make(map[string]ResolvedBackend, len(l.Backends)),
	}

	for name, backend := range l.Backends {
		sources, err := expandGlobs(l.SourceRoot, backend.Sources)
		if err != nil {
			return nil, err
		}
		resolved.Backends[name] = ResolvedBackend{
			Sources:     sources,
			IncludeDirs: joinDirs(l.SourceRoot, backend.IncludeDirs),
		}
	}

	return resolved, nil
}

// Backend returns the resolved backend for name, or an empty backend
// when the layout does not define one.
func (r *ResolvedLayout) Backend(name string) ResolvedBackend {
	return r.Backends[name]
}

// expandGlobs expands each pattern relative to root and returns the
// concatenated, deduplicated matches.
func expandGlobs(root string, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	return uniqueStrings(files), nil
}

// joinDirs joins each directory with root. "." means the root itself.
func joinDirs(root string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "." {
			out = append(out, root)
			continue
		}
		out = append(out, filepath.Join(root, dir))
	}
	return out
}
