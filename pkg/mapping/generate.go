package mapping

import (
	"context"

	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// PackageMeta is the slice of registry metadata relevant to mapping
// generation: what a package needs at runtime and which extras it offers.
type PackageMeta struct {
	RuntimeDeps []string
	Extras      map[string][]string
}

// MetadataSource retrieves package metadata from a registry. Calls are
// blocking and may hit the network; the source defines its own timeout.
// A lookup failure must be recoverable: generation proceeds without it.
type MetadataSource interface {
	PackageMeta(ctx context.Context, name string, refresh bool) (*PackageMeta, error)
}

// GenerateOptions configures Generate.
type GenerateOptions struct {
	// Refresh bypasses the registry response cache.
	Refresh bool
	// Logf receives non-fatal lookup warnings. Optional.
	Logf func(string, ...any)
	// Progress is called once per package before its lookup. Optional.
	Progress func(done, total int, name string)
}

// Generate builds a Config for the given requirements by querying src for
// each declared package. Runtime dependencies are kept only when the
// dependency is itself declared, since the match engine can only mark
// declared requirements used. Lookup failures are logged and skipped so a
// flaky registry never blocks config generation.
func Generate(ctx context.Context, reqPath string, reqData []byte, entries []requirements.Entry, src MetadataSource, opts GenerateOptions) (*Config, error) {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	declared := make(map[string]bool, len(entries))
	for _, e := range entries {
		declared[e.Normalized] = true
	}

	cfg := NewConfig(reqPath, reqData)

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(entries), e.Name)
		}

		meta, err := src.PackageMeta(ctx, e.Normalized, opts.Refresh)
		if err != nil {
			logf("metadata lookup failed: %s: %v", e.Name, err)
			continue
		}

		var runtime []string
		for _, dep := range meta.RuntimeDeps {
			if key := requirements.Normalize(dep); declared[key] {
				runtime = append(runtime, key)
			}
		}
		if len(runtime) > 0 {
			cfg.RuntimeDependencies[e.Normalized] = runtime
		}

		if picked := PreferredExtras(meta.Extras); len(picked) > 0 {
			cfg.PackageExtras[e.Normalized] = picked
		}
	}

	return cfg, nil
}
