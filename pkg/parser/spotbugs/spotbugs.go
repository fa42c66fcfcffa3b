// Package spotbugs parses SpotBugs XML bug collections into the canonical
// diagnostic model. Project paths come from the Project element; each
// BugInstance becomes one message with its Class/Method annotations as
// events in document order.
package spotbugs

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/parser"
	"github.com/scanhub/repconv/pkg/report"
	"github.com/scanhub/repconv/pkg/srcpath"
)

const Name = "spotbugs"

// oldestSupported is the oldest SpotBugs release the converter is tested
// against. Older collections still convert; a warning is logged.
var oldestSupported = version.Must(version.NewVersion("3.1.0"))

// New creates a parser for one SpotBugs result file. extraRoots are
// appended after the document's own project paths when resolving source
// paths.
func New(fs afero.Fs, extraRoots []string) parser.Parser {
	return parser.NewDriver(fs, &format{}, extraRoots)
}

type format struct{}

func (f *format) Name() string {
	return Name
}

type bugCollection struct {
	Version string        `xml:"version,attr"`
	Project project       `xml:"Project"`
	Bugs    []bugInstance `xml:"BugInstance"`
}

type project struct {
	// Every child element of Project whose text is a path counts: SrcDir,
	// Jar, AuxClasspathEntry and friends.
	Entries []projectEntry `xml:",any"`
}

type projectEntry struct {
	Text string `xml:",chardata"`
}

type sourceLine struct {
	SourcePath string `xml:"sourcepath,attr"`
	// start is kept as a string so an unparseable line number stays local
	// to its finding instead of failing the whole document.
	Start string `xml:"start,attr"`
}

type annotation struct {
	// Message is a pointer so a missing element is distinguishable from an
	// empty one; annotations without a message are skipped.
	Message    *string     `xml:"Message"`
	SourceLine *sourceLine `xml:"SourceLine"`
}

type bugInstance struct {
	reportHash     string
	checker        string
	longMessage    string
	hasLongMessage bool
	source         *sourceLine
	// annotations holds the Class and Method children in document order.
	annotations []annotation
}

// UnmarshalXML decodes a BugInstance by hand: the interleaved order of
// Class and Method children is part of the model (events preserve document
// order) and struct-tag slices would lose it.
func (b *bugInstance) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "instanceHash":
			b.reportHash = attr.Value
		case "type":
			b.checker = attr.Value
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "LongMessage":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.longMessage = s
				b.hasLongMessage = true
			case "SourceLine":
				var sl sourceLine
				if err := d.DecodeElement(&sl, &t); err != nil {
					return err
				}
				// The first direct SourceLine child is the primary location.
				if b.source == nil {
					b.source = &sl
				}
			case "Class", "Method":
				var a annotation
				if err := d.DecodeElement(&a, &t); err != nil {
					return err
				}
				b.annotations = append(b.annotations, a)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (f *format) Load(logE *logrus.Entry, fs afero.Fs, resultFile string) (*parser.Document[bugInstance], error) {
	file, err := fs.Open(resultFile)
	if err != nil {
		return nil, fmt.Errorf("open an analyzer result: %w", err)
	}
	defer file.Close()
	doc := &bugCollection{}
	if err := xml.NewDecoder(file).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode an analyzer result as SpotBugs XML: %w", err)
	}
	f.checkVersion(logE, doc.Version)
	return &parser.Document[bugInstance]{
		ProjectPaths: projectPaths(fs, doc.Project),
		Findings:     doc.Bugs,
	}, nil
}

func (f *format) checkVersion(logE *logrus.Entry, v string) {
	if v == "" {
		return
	}
	ver, err := version.NewVersion(v)
	if err != nil {
		logE.WithField("spotbugs_version", v).Warn("unrecognized SpotBugs version in the bug collection")
		return
	}
	if ver.LessThan(oldestSupported) {
		logE.WithFields(logrus.Fields{
			"spotbugs_version": v,
			"oldest_supported": oldestSupported.Original(),
		}).Warn("the bug collection was produced by an older SpotBugs than the converter is tested against")
	}
}

// projectPaths extracts search roots from the Project metadata: a
// directory entry is used as-is, a file entry contributes its containing
// directory, anything that doesn't exist is ignored.
func projectPaths(fs afero.Fs, p project) []string {
	paths := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		entry := strings.TrimSpace(e.Text)
		if entry == "" {
			continue
		}
		fi, err := fs.Stat(entry)
		if err != nil {
			continue
		}
		if fi.IsDir() {
			paths = append(paths, entry)
			continue
		}
		paths = append(paths, filepath.Dir(entry))
	}
	return paths
}

func (f *format) ParseFinding(logE *logrus.Entry, res *srcpath.Resolver, bug bugInstance) (*report.Message, bool) {
	logE = logE.WithFields(logrus.Fields{
		"checker":     bug.checker,
		"report_hash": bug.reportHash,
	})
	if !bug.hasLongMessage {
		logE.Warn("skip a bug instance without a LongMessage")
		return nil, false
	}
	if bug.source == nil {
		logE.Warn("skip a bug instance without a source line")
		return nil, false
	}
	path, ok := res.Resolve(logE, bug.source.SourcePath)
	if !ok {
		// The resolver already warned with the raw path; dropping the
		// finding is the contract for an unresolvable primary location.
		return nil, false
	}
	line, err := strconv.Atoi(bug.source.Start)
	if err != nil {
		logE.WithField("start", bug.source.Start).Warn("skip a bug instance with an invalid start line")
		return nil, false
	}
	var events []report.Event
	for _, a := range bug.annotations {
		ev, ok := f.event(logE, res, a)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return &report.Message{
		Path: path,
		Line: line,
		// SpotBugs reports no column.
		Column:     0,
		Message:    bug.longMessage,
		Checker:    bug.checker,
		ReportHash: bug.reportHash,
		Events:     events,
	}, true
}

// event builds one event from a Class or Method annotation. An annotation
// missing its message or source line, or whose path doesn't resolve, is
// skipped without aborting the finding.
func (f *format) event(logE *logrus.Entry, res *srcpath.Resolver, a annotation) (report.Event, bool) {
	if a.Message == nil || a.SourceLine == nil {
		return report.Event{}, false
	}
	path, ok := res.Resolve(logE, a.SourceLine.SourcePath)
	if !ok {
		return report.Event{}, false
	}
	line, err := strconv.Atoi(a.SourceLine.Start)
	if err != nil {
		return report.Event{}, false
	}
	return report.Event{
		Path:    path,
		Line:    line,
		Column:  0,
		Message: *a.Message,
	}, true
}
