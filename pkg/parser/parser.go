// Package parser defines the contract every analyzer-specific parser
// implements and the result-accumulation behavior they all share. A
// dialect plugs in by implementing Format; Driver owns loading, path
// resolution and the accumulate-and-skip loop, so the shared policy lives
// in one place.
package parser

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/report"
	"github.com/scanhub/repconv/pkg/srcpath"
)

// Parser converts one analyzer result file into canonical messages.
// Document-fatal conditions (missing file, malformed document) are
// returned as errors so callers can tell "no findings" from "could not
// parse". A parser accumulates messages for its lifetime; reuse across
// result files is not supported, construct a fresh parser per file.
type Parser interface {
	Format() string
	ParseMessages(logE *logrus.Entry, resultFile string) ([]*report.Message, error)
}

// Document is one loaded analyzer result: the project paths extracted from
// its metadata and the raw findings in document order.
type Document[T any] struct {
	ProjectPaths []string
	Findings     []T
}

// Format is the dialect-specific half of a parser.
type Format[T any] interface {
	Name() string
	// Load reads and validates one result file and extracts its project
	// paths and raw findings.
	Load(logE *logrus.Entry, fs afero.Fs, resultFile string) (*Document[T], error)
	// ParseFinding converts one raw finding into a message. ok is false
	// when the finding must be skipped (unresolvable primary path, missing
	// required fields); skipping never fails the whole document.
	ParseFinding(logE *logrus.Entry, res *srcpath.Resolver, finding T) (*report.Message, bool)
}

// Driver implements Parser on top of a Format. The project paths extracted
// from the document are the resolver's search roots, followed by any extra
// roots supplied by configuration.
type Driver[T any] struct {
	fs         afero.Fs
	format     Format[T]
	extraRoots []string
	messages   []*report.Message
}

func NewDriver[T any](fs afero.Fs, format Format[T], extraRoots []string) *Driver[T] {
	return &Driver[T]{
		fs:         fs,
		format:     format,
		extraRoots: extraRoots,
	}
}

func (d *Driver[T]) Format() string {
	return d.format.Name()
}

func (d *Driver[T]) ParseMessages(logE *logrus.Entry, resultFile string) ([]*report.Message, error) {
	doc, err := d.format.Load(logE, d.fs, resultFile)
	if err != nil {
		return nil, fmt.Errorf("load an analyzer result: %w", err)
	}
	res := srcpath.New(d.fs, append(slices.Clone(doc.ProjectPaths), d.extraRoots...))
	for _, finding := range doc.Findings {
		m, ok := d.format.ParseFinding(logE, res, finding)
		if !ok {
			continue
		}
		d.messages = append(d.messages, m)
	}
	return d.messages, nil
}
