package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scanhub/repconv/pkg/report"
)

const (
	formatSARIF = "sarif"
	formatJSON  = "json"
)

func (c *Controller) output(messages []*report.Message) error {
	w := c.param.Stdout
	if c.param.Output != "" {
		f, err := c.fs.Create(c.param.Output)
		if err != nil {
			return fmt.Errorf("create the output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	switch c.param.OutputFormat {
	case "", formatSARIF:
		return c.outputSARIF(w, messages)
	case formatJSON:
		return c.outputJSON(w, messages)
	default:
		return fmt.Errorf("unsupported output format: %s", c.param.OutputFormat)
	}
}

func (c *Controller) outputJSON(w io.Writer, messages []*report.Message) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(messages); err != nil {
		return fmt.Errorf("encode messages as JSON: %w", err)
	}
	return nil
}
