package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/scanhub/repconv/pkg/cli/convert"
	"github.com/scanhub/repconv/pkg/cli/upload"
)

type Runner struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	LDFlags *LDFlags
	LogE    *logrus.Entry
}

type LDFlags struct {
	Version string
	Commit  string
	Date    string
}

func (r *Runner) Run(ctx context.Context, args ...string) error {
	cmd := &cli.Command{
		Name:    "repconv",
		Usage:   "Convert static analyzer results to a common format. https://github.com/scanhub/repconv",
		Version: r.LDFlags.Version + " (" + r.LDFlags.Commit + ")",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level",
				Sources: cli.EnvVars("REPCONV_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-color",
				Usage:   "log color (auto, always, never)",
				Sources: cli.EnvVars("REPCONV_LOG_COLOR"),
			},
			&cli.StringFlag{
				Name: "config",
				Aliases: []string{
					"c",
				},
				Usage:   "configuration file path",
				Sources: cli.EnvVars("REPCONV_CONFIG"),
			},
		},
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			convert.New(r.LogE, r.LDFlags.Version),
			upload.New(r.LogE),
			r.newVersionCommand(),
		},
	}

	return cmd.Run(ctx, args) //nolint:wrapcheck
}
