// Package upload stores a SARIF document in the remote result store
// (GitHub code scanning). An expired session is refreshed once and the
// upload retried; every other failure is classified and returned.
package upload

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/github"
)

type Controller struct {
	fs        afero.Fs
	param     *ParamUpload
	uploader  SarifUploader
	refresher CredentialRefresher
}

// SarifUploader is the result-store write API. *github.Client's
// CodeScanning service satisfies it.
type SarifUploader interface {
	UploadSarif(ctx context.Context, owner, repo string, sarif *github.SarifAnalysis) (*github.SarifID, *github.Response, error)
}

// CredentialRefresher re-establishes the store session after the server
// reports it expired, returning a freshly authenticated uploader.
type CredentialRefresher interface {
	Refresh(ctx context.Context, logE *logrus.Entry) (SarifUploader, error)
}

// RefresherFunc adapts a function to CredentialRefresher.
type RefresherFunc func(ctx context.Context, logE *logrus.Entry) (SarifUploader, error)

func (f RefresherFunc) Refresh(ctx context.Context, logE *logrus.Entry) (SarifUploader, error) {
	return f(ctx, logE)
}

type ParamUpload struct {
	// RepoOwner and RepoName identify the repository in the result store.
	RepoOwner string
	RepoName  string
	// Ref is the fully qualified git ref the analysis ran on, e.g.
	// refs/heads/main.
	Ref string
	// SHA is the commit the analysis ran on.
	SHA string
	// SarifFile is the SARIF document to store.
	SarifFile string
	Stdout    io.Writer
}

func New(fs afero.Fs, uploader SarifUploader, refresher CredentialRefresher, param *ParamUpload) *Controller {
	return &Controller{
		fs:        fs,
		param:     param,
		uploader:  uploader,
		refresher: refresher,
	}
}
