// Package report defines the canonical diagnostic model every analyzer
// parser produces. A Message is one reported finding; Events, Notes and
// Fixits are the steps of its explanatory chain. The types are plain values
// with structural equality, so two independently parsed runs of the same
// document compare equal.
package report

import (
	"fmt"
	"slices"
)

// Event is one step in the causal chain of a finding.
type Event struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Note is auxiliary context attached to a finding. It is structurally
// identical to an Event but rendered separately by writers.
type Note Event

func (n Note) String() string {
	return Event(n).String()
}

// Fixit is a suggested code change attached to a finding.
type Fixit Event

func (f Fixit) String() string {
	return Event(f).String()
}

// Message is one normalized finding. ReportHash is the analyzer-supplied
// instance identity used for cross-run deduplication; analyzers that don't
// supply one leave it empty.
type Message struct {
	Path       string  `json:"path"`
	Line       int     `json:"line"`
	Column     int     `json:"column"`
	Message    string  `json:"message"`
	Checker    string  `json:"checker"`
	ReportHash string  `json:"report_hash,omitempty"`
	Events     []Event `json:"events,omitempty"`
	Notes      []Note  `json:"notes,omitempty"`
	Fixits     []Fixit `json:"fixits,omitempty"`
}

// Equal reports whether two messages are structurally equal. The event,
// note and fixit sequences are compared in order: the same events in a
// different order are not equal.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Path == o.Path &&
		m.Line == o.Line &&
		m.Column == o.Column &&
		m.Message == o.Message &&
		m.Checker == o.Checker &&
		m.ReportHash == o.ReportHash &&
		slices.Equal(m.Events, o.Events) &&
		slices.Equal(m.Notes, o.Notes) &&
		slices.Equal(m.Fixits, o.Fixits)
}

func (m *Message) String() string {
	s := fmt.Sprintf("%s:%d:%d: %s [%s]", m.Path, m.Line, m.Column, m.Message, m.Checker)
	if m.ReportHash != "" {
		s += ", report_hash=" + m.ReportHash
	}
	return s
}
