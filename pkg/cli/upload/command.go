package upload

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/scanhub/repconv/pkg/controller/upload"
	"github.com/scanhub/repconv/pkg/github"
	"github.com/scanhub/repconv/pkg/log"
)

func New(logE *logrus.Entry) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command()
}

type runner struct {
	logE *logrus.Entry
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a SARIF file to GitHub code scanning",
		Description: `Upload a SARIF file to GitHub code scanning.

e.g.

$ repconv upload -repo-owner scanhub -repo-name demo -ref refs/heads/main -sha $(git rev-parse HEAD) result.sarif
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo-owner",
				Usage:   "GitHub repository owner",
				Sources: cli.EnvVars("GITHUB_REPOSITORY_OWNER"),
			},
			&cli.StringFlag{
				Name:  "repo-name",
				Usage: "GitHub repository name",
			},
			&cli.StringFlag{
				Name:    "ref",
				Usage:   "fully qualified git ref the analysis ran on, e.g. refs/heads/main",
				Sources: cli.EnvVars("GITHUB_REF"),
			},
			&cli.StringFlag{
				Name:    "sha",
				Usage:   "commit SHA the analysis ran on",
				Sources: cli.EnvVars("GITHUB_SHA"),
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	log.SetLevel(c.String("log-level"), r.logE)
	log.SetColor(c.String("log-color"), r.logE)
	if c.Args().Len() != 1 {
		return errors.New("a SARIF file path is required as an argument")
	}
	gh := github.New(ctx, github.Token())
	refresher := upload.RefresherFunc(func(ctx context.Context, _ *logrus.Entry) (upload.SarifUploader, error) {
		token := github.Token()
		if token == "" {
			return nil, errors.New("no credential found in the environment")
		}
		return github.New(ctx, token).CodeScanning, nil
	})
	param := &upload.ParamUpload{
		RepoOwner: c.String("repo-owner"),
		RepoName:  c.String("repo-name"),
		Ref:       c.String("ref"),
		SHA:       c.String("sha"),
		SarifFile: c.Args().First(),
		Stdout:    os.Stdout,
	}
	ctrl := upload.New(afero.NewOsFs(), gh.CodeScanning, refresher, param)
	return ctrl.Run(ctx, r.logE) //nolint:wrapcheck
}
