package convert

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/scanhub/repconv/pkg/config"
	"github.com/scanhub/repconv/pkg/controller/convert"
	"github.com/scanhub/repconv/pkg/log"
)

func New(logE *logrus.Entry, version string) *cli.Command {
	r := &runner{
		logE:    logE,
		version: version,
	}
	return r.Command()
}

type runner struct {
	logE    *logrus.Entry
	version string
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert analyzer result files to SARIF or JSON",
		Description: `If no argument is passed, repconv searches analyzer result files with the patterns of the configuration file.

$ repconv convert

You can also pass result file paths as arguments.

e.g.

$ repconv convert -format spotbugs target/spotbugsXml.xml
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "analyzer result format (spotbugs, checkstyle)",
				Value:   "spotbugs",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path. By default the result is written to the standard output",
			},
			&cli.StringFlag{
				Name:  "output-format",
				Usage: "output format (sarif, json)",
				Value: "sarif",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "maximum number of result files converted in parallel. By default the number of CPUs",
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	log.SetLevel(c.String("log-level"), r.logE)
	log.SetColor(c.String("log-color"), r.logE)
	fs := afero.NewOsFs()
	param := &convert.ParamConvert{
		ResultFiles:    c.Args().Slice(),
		Format:         c.String("format"),
		ConfigFilePath: c.String("config"),
		Output:         c.String("output"),
		OutputFormat:   c.String("output-format"),
		Concurrency:    c.Int("concurrency"),
		ToolVersion:    r.version,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
	ctrl := convert.New(fs, config.NewFinder(fs), config.NewReader(fs), param)
	return ctrl.Run(ctx, r.logE) //nolint:wrapcheck
}
