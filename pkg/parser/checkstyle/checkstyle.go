// Package checkstyle parses checkstyle XML reports (also emitted by many
// linters) into the canonical diagnostic model. The format carries no
// project metadata, so only the raw path and the configured extra source
// roots feed path resolution.
package checkstyle

import (
	"encoding/xml"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/parser"
	"github.com/scanhub/repconv/pkg/report"
	"github.com/scanhub/repconv/pkg/srcpath"
)

const Name = "checkstyle"

// New creates a parser for one checkstyle result file.
func New(fs afero.Fs, extraRoots []string) parser.Parser {
	return parser.NewDriver(fs, &format{}, extraRoots)
}

type format struct{}

func (f *format) Name() string {
	return Name
}

// checkstyleResult represents the checkstyle XML report:
// <checkstyle version="4.3"><file name="..."><error .../></file></checkstyle>
type checkstyleResult struct {
	XMLName xml.Name          `xml:"checkstyle"`
	Version string            `xml:"version,attr"`
	Files   []*checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string             `xml:"name,attr"`
	Errors []*checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// finding is one (file, error) pair in document order.
type finding struct {
	file string
	err  *checkstyleError
}

func (f *format) Load(_ *logrus.Entry, fs afero.Fs, resultFile string) (*parser.Document[finding], error) {
	file, err := fs.Open(resultFile)
	if err != nil {
		return nil, fmt.Errorf("open an analyzer result: %w", err)
	}
	defer file.Close()
	doc := &checkstyleResult{}
	if err := xml.NewDecoder(file).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode an analyzer result as checkstyle XML: %w", err)
	}
	findings := []finding{}
	for _, csFile := range doc.Files {
		for _, csErr := range csFile.Errors {
			findings = append(findings, finding{file: csFile.Name, err: csErr})
		}
	}
	return &parser.Document[finding]{
		// No project metadata in this dialect; only extra roots apply.
		ProjectPaths: nil,
		Findings:     findings,
	}, nil
}

func (f *format) ParseFinding(logE *logrus.Entry, res *srcpath.Resolver, fd finding) (*report.Message, bool) {
	logE = logE.WithField("checker", fd.err.Source)
	path, ok := res.Resolve(logE, fd.file)
	if !ok {
		return nil, false
	}
	if fd.err.Line < 1 {
		logE.WithField("line", fd.err.Line).Warn("skip a checkstyle error without a valid line")
		return nil, false
	}
	column := fd.err.Column
	if column < 0 {
		column = 0
	}
	return &report.Message{
		Path:    path,
		Line:    fd.err.Line,
		Column:  column,
		Message: fd.err.Message,
		Checker: fd.err.Source,
	}, true
}
