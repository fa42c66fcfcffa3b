// Package srcpath resolves analyzer-reported source paths against the
// project roots found in a result document. Analyzers report paths
// absolute, relative to an analyzed module, or relative to an unknown
// project root; the resolver probes each candidate on the filesystem and
// returns the first that exists.
package srcpath

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Resolver resolves raw source paths against an ordered set of search
// roots. Construct one per result document; it caches hits and misses
// because the same raw path recurs across many findings of one document.
// A Resolver must not be shared between concurrently parsed documents.
type Resolver struct {
	fs    afero.Fs
	roots []string
	cache map[string]string
}

// New creates a resolver for one document. roots are tried in the order
// supplied, so callers must pass them in priority order.
func New(fs afero.Fs, roots []string) *Resolver {
	return &Resolver{
		fs:    fs,
		roots: roots,
		cache: map[string]string{},
	}
}

// Resolve returns the resolvable location of rawPath. The raw path wins if
// it exists as-is; otherwise the first root whose join with rawPath exists
// wins. When nothing exists it logs a warning with the raw path and
// returns ok=false; the caller decides whether to drop the finding.
func (r *Resolver) Resolve(logE *logrus.Entry, rawPath string) (string, bool) {
	if p, ok := r.cache[rawPath]; ok {
		return p, p != ""
	}
	p := r.lookup(rawPath)
	r.cache[rawPath] = p
	if p == "" {
		logE.WithField("source_path", rawPath).Warn("no source file found")
		return "", false
	}
	return p, true
}

func (r *Resolver) lookup(rawPath string) string {
	if ok, _ := afero.Exists(r.fs, rawPath); ok {
		return rawPath
	}
	for _, root := range r.roots {
		p := filepath.Join(root, rawPath)
		if ok, _ := afero.Exists(r.fs, p); ok {
			return p
		}
	}
	return ""
}
