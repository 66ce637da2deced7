package jsonsource

import (
	"context"
	"io/fs"

	"datagraph/domain/dataset"

	"golang.org/x/sync/errgroup"
)

// maxParallelDocuments bounds how many documents a DirSource parses at once
const maxParallelDocuments = 4

// DirSource reads every *.json document at the root of a filesystem. The
// directory is listed again on each Load, so documents added after startup
// are picked up by the next reload.
type DirSource struct {
	fsys  fs.FS
	label string
}

// NewDirSource creates a source over all documents in fsys
func NewDirSource(fsys fs.FS, label string) *DirSource {
	return &DirSource{fsys: fsys, label: label}
}

// Name returns the source identifier used in logs
func (s *DirSource) Name() string {
	return s.label
}

// Load parses all documents, in file name order. Any unreadable or invalid
// document fails the whole load.
func (s *DirSource) Load(ctx context.Context) ([]dataset.Variable, error) {
	files, err := Discover(s.fsys, s.label)
	if err != nil {
		return nil, err
	}

	results := make([][]dataset.Variable, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDocuments)

	for i, f := range files {
		g.Go(func() error {
			vars, err := f.Load(gctx)
			if err != nil {
				return err
			}
			results[i] = vars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []dataset.Variable
	for _, vars := range results {
		out = append(out, vars...)
	}
	return out, nil
}
