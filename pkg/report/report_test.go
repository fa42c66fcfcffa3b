package report_test

import (
	"testing"

	"github.com/scanhub/repconv/pkg/report"
)

func TestMessage_Equal(t *testing.T) { //nolint:funlen
	t.Parallel()
	base := func() *report.Message {
		return &report.Message{
			Path:       "/repo/src/Foo.java",
			Line:       42,
			Column:     0,
			Message:    "Possible null pointer dereference",
			Checker:    "NP_NULL_ON_SOME_PATH",
			ReportHash: "abc123",
			Events: []report.Event{
				{Path: "/repo/src/Foo.java", Line: 10, Message: "In class Foo"},
				{Path: "/repo/src/Foo.java", Line: 40, Message: "In method bar()"},
			},
		}
	}
	tests := []struct {
		name   string
		modify func(m *report.Message)
		want   bool
	}{
		{
			name:   "identical",
			modify: func(_ *report.Message) {},
			want:   true,
		},
		{
			name: "different path",
			modify: func(m *report.Message) {
				m.Path = "/repo/src/Bar.java"
			},
			want: false,
		},
		{
			name: "different line",
			modify: func(m *report.Message) {
				m.Line = 43
			},
			want: false,
		},
		{
			name: "different report hash",
			modify: func(m *report.Message) {
				m.ReportHash = "def456"
			},
			want: false,
		},
		{
			name: "event order matters",
			modify: func(m *report.Message) {
				m.Events[0], m.Events[1] = m.Events[1], m.Events[0]
			},
			want: false,
		},
		{
			name: "missing event",
			modify: func(m *report.Message) {
				m.Events = m.Events[:1]
			},
			want: false,
		},
		{
			name: "note added",
			modify: func(m *report.Message) {
				m.Notes = []report.Note{{Path: "/repo/src/Foo.java", Line: 1, Message: "note"}}
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := base()
			b := base()
			tt.modify(b)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage_Equal_nil(t *testing.T) {
	t.Parallel()
	var a *report.Message
	if !a.Equal(nil) {
		t.Error("Equal() nil receiver and nil argument must be equal")
	}
	if a.Equal(&report.Message{}) {
		t.Error("Equal() nil receiver and non-nil argument must not be equal")
	}
}

func TestMessage_String(t *testing.T) {
	t.Parallel()
	m := &report.Message{
		Path:       "/repo/src/Foo.java",
		Line:       42,
		Message:    "Possible null pointer dereference",
		Checker:    "NP_NULL_ON_SOME_PATH",
		ReportHash: "abc123",
	}
	want := "/repo/src/Foo.java:42:0: Possible null pointer dereference [NP_NULL_ON_SOME_PATH], report_hash=abc123"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEvent_String(t *testing.T) {
	t.Parallel()
	e := report.Event{Path: "/repo/src/Foo.java", Line: 10, Column: 2, Message: "In class Foo"}
	want := "/repo/src/Foo.java:10:2: In class Foo"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
