package convert

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type colorFunc func(a ...interface{}) string

// Logger writes the human-readable per-file summary to stderr, separate
// from the structured log.
type Logger struct {
	stderr io.Writer
	red    colorFunc
	green  colorFunc
}

func NewLogger(stderr io.Writer) *Logger {
	return &Logger{
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		stderr: stderr,
	}
}

func (l *Logger) Success(resultFile string, count int) {
	fmt.Fprintf(l.stderr, "%s %s: %d findings\n", l.green("CONVERTED"), resultFile, count)
}

func (l *Logger) Failure(resultFile string, err error) {
	fmt.Fprintf(l.stderr, "%s %s: %v\n", l.red("FAILED"), resultFile, err)
}
