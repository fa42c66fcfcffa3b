package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scanhub/repconv/pkg/report"
	"github.com/scanhub/repconv/pkg/sarif"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	levelWarning = "warning"
)

// outputSARIF writes the converted messages as one SARIF run.
func (c *Controller) outputSARIF(w io.Writer, messages []*report.Message) error {
	log := sarif.Log{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarif.Run{
			{
				Tool: sarif.Tool{
					Driver: sarif.Driver{
						Name:           "repconv",
						InformationURI: "https://github.com/scanhub/repconv",
						Version:        c.param.ToolVersion,
						Rules:          buildSARIFRules(messages),
					},
				},
				Results: buildSARIFResults(messages),
			},
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

// buildSARIFRules lists each checker once, in first-seen order.
func buildSARIFRules(messages []*report.Message) []sarif.Rule {
	seen := map[string]struct{}{}
	rules := []sarif.Rule{}
	for _, m := range messages {
		if _, ok := seen[m.Checker]; ok {
			continue
		}
		seen[m.Checker] = struct{}{}
		rules = append(rules, sarif.Rule{
			ID: m.Checker,
			ShortDescription: sarif.Message{
				Text: m.Checker,
			},
		})
	}
	return rules
}

func buildSARIFResults(messages []*report.Message) []sarif.Result {
	results := make([]sarif.Result, 0, len(messages))
	for _, m := range messages {
		result := sarif.Result{
			RuleID:  m.Checker,
			Level:   levelWarning,
			Message: sarif.Message{Text: m.Message},
			Locations: []sarif.Location{
				location(m.Path, m.Line, m.Column, ""),
			},
			RelatedLocations: relatedLocations(m),
		}
		if m.ReportHash != "" {
			result.PartialFingerprints = map[string]string{
				"reportHash": m.ReportHash,
			}
		}
		results = append(results, result)
	}
	return results
}

// relatedLocations renders the explanatory chain: events first, then notes
// and fixits, each keeping its own message.
func relatedLocations(m *report.Message) []sarif.Location {
	locations := make([]sarif.Location, 0, len(m.Events)+len(m.Notes)+len(m.Fixits))
	for _, e := range m.Events {
		locations = append(locations, location(e.Path, e.Line, e.Column, e.Message))
	}
	for _, n := range m.Notes {
		locations = append(locations, location(n.Path, n.Line, n.Column, n.Message))
	}
	for _, f := range m.Fixits {
		locations = append(locations, location(f.Path, f.Line, f.Column, f.Message))
	}
	return locations
}

func location(path string, line, column int, message string) sarif.Location {
	loc := sarif.Location{
		PhysicalLocation: sarif.PhysicalLocation{
			ArtifactLocation: sarif.ArtifactLocation{
				URI: path,
			},
			Region: sarif.Region{
				StartLine:   line,
				StartColumn: column,
			},
		},
	}
	if message != "" {
		loc.Message = &sarif.Message{Text: message}
	}
	return loc
}
