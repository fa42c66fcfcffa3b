package convert

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/sync/errgroup"

	"github.com/scanhub/repconv/pkg/config"
	"github.com/scanhub/repconv/pkg/parser"
	"github.com/scanhub/repconv/pkg/parser/checkstyle"
	"github.com/scanhub/repconv/pkg/parser/spotbugs"
	"github.com/scanhub/repconv/pkg/report"
)

// ErrConversionFailed reports that at least one analyzer result could not
// be converted. The CLI maps it to a non-zero exit status.
var ErrConversionFailed = errors.New("some analyzer results could not be converted")

// target is one analyzer result file together with the format to parse it
// as.
type target struct {
	path   string
	format string
}

type fileResult struct {
	target   target
	messages []*report.Message
	err      error
}

func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	if err := c.readConfig(); err != nil {
		return err
	}
	targets, err := c.searchFiles()
	if err != nil {
		return fmt.Errorf("search analyzer result files: %w", err)
	}
	if len(targets) == 0 {
		return errors.New("no analyzer result files found")
	}
	if err := c.validate(targets); err != nil {
		return err
	}

	results, err := c.convertFiles(ctx, logE, targets)
	if err != nil {
		return err
	}

	failed := false
	messages := []*report.Message{}
	for _, r := range results {
		if r.err != nil {
			failed = true
			logerr.WithError(logE.WithField("analyzer_result", r.target.path), r.err).Error("convert an analyzer result")
			c.logger.Failure(r.target.path, r.err)
			continue
		}
		c.logger.Success(r.target.path, len(r.messages))
		messages = append(messages, r.messages...)
	}

	if err := c.output(messages); err != nil {
		return err
	}
	if failed {
		return ErrConversionFailed
	}
	return nil
}

func (c *Controller) readConfig() error {
	p, err := c.cfgFinder.Find(c.param.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("find a configuration file: %w", err)
	}
	c.param.ConfigFilePath = p
	cfg := &config.Config{}
	if err := c.cfgReader.Read(cfg, c.param.ConfigFilePath); err != nil {
		return fmt.Errorf("read a config file: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *Controller) searchFiles() ([]target, error) {
	if len(c.param.ResultFiles) != 0 {
		targets := make([]target, 0, len(c.param.ResultFiles))
		for _, p := range c.param.ResultFiles {
			targets = append(targets, target{path: p, format: c.param.Format})
		}
		return targets, nil
	}
	targets := []target{}
	for _, f := range c.cfg.Files {
		matches, err := afero.Glob(c.fs, f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("match files[].pattern as a glob: %w", err)
		}
		for _, m := range matches {
			targets = append(targets, target{path: m, format: f.Format})
		}
	}
	return targets, nil
}

// validate fails fast on unknown analyzer or output formats before any
// document is touched.
func (c *Controller) validate(targets []target) error {
	for _, t := range targets {
		if _, err := c.newParser(t.format); err != nil {
			return err
		}
	}
	switch c.param.OutputFormat {
	case "", formatSARIF, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", c.param.OutputFormat)
	}
}

func (c *Controller) newParser(format string) (parser.Parser, error) {
	switch format {
	case spotbugs.Name:
		return spotbugs.New(c.fs, c.cfg.SourceDirs), nil
	case checkstyle.Name:
		return checkstyle.New(c.fs, c.cfg.SourceDirs), nil
	default:
		return nil, fmt.Errorf("unsupported analyzer format: %s", format)
	}
}

// convertFiles converts each result file with its own parser instance, so
// accumulated state never leaks between documents and independent
// documents convert in parallel. Result order follows target order; a
// document-fatal error is recorded per file instead of cancelling the
// group.
func (c *Controller) convertFiles(ctx context.Context, logE *logrus.Entry, targets []target) ([]*fileResult, error) {
	results := make([]*fileResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	limit := c.param.Concurrency
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("convert analyzer results: %w", err)
			}
			p, err := c.newParser(t.format)
			if err != nil {
				results[i] = &fileResult{target: t, err: err}
				return nil
			}
			msgs, err := p.ParseMessages(logE.WithField("analyzer_result", t.path), t.path)
			results[i] = &fileResult{target: t, messages: msgs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
