package upload

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/github"
)

var (
	// ErrAuthDenied reports that the result store rejected the credential
	// even after a refresh.
	ErrAuthDenied = errors.New("the result store denied access")
	// ErrStoreNotFound reports that the target repository does not exist
	// or code scanning is not enabled for it.
	ErrStoreNotFound = errors.New("the result store was not found")
	// ErrStoreUnavailable reports a server-side failure of the result
	// store.
	ErrStoreUnavailable = errors.New("the result store is unavailable")
)

func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	raw, err := afero.ReadFile(c.fs, c.param.SarifFile)
	if err != nil {
		return fmt.Errorf("read a SARIF file: %w", err)
	}
	encoded, err := encodeSarif(raw)
	if err != nil {
		return fmt.Errorf("encode a SARIF file for the result store: %w", err)
	}
	analysis := &github.SarifAnalysis{
		CommitSHA: github.Ptr(c.param.SHA),
		Ref:       github.Ptr(c.param.Ref),
		Sarif:     github.Ptr(encoded),
	}

	id, err := c.upload(ctx, logE, analysis)
	if err != nil {
		return err
	}
	if id != nil && id.ID != nil {
		fmt.Fprintln(c.param.Stdout, *id.ID)
	}
	return nil
}

// upload stores the analysis, refreshing the session and retrying once
// when the store reports the session expired. The retried call's outcome
// is final either way.
func (c *Controller) upload(ctx context.Context, logE *logrus.Entry, analysis *github.SarifAnalysis) (*github.SarifID, error) {
	id, resp, err := c.uploader.UploadSarif(ctx, c.param.RepoOwner, c.param.RepoName, analysis)
	if err == nil {
		return id, nil
	}
	if !isSessionExpired(resp) || c.refresher == nil {
		return nil, classify(resp, err)
	}

	logE.Debug("the result store session expired, refreshing the credential")
	uploader, err := c.refresher.Refresh(ctx, logE)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh the credential: %w", ErrAuthDenied, err)
	}
	c.uploader = uploader

	id, resp, err = c.uploader.UploadSarif(ctx, c.param.RepoOwner, c.param.RepoName, analysis)
	if err != nil {
		return nil, classify(resp, err)
	}
	return id, nil
}

// encodeSarif compresses and encodes the document the way the store's
// upload API expects: gzip, then standard base64.
func encodeSarif(raw []byte) (string, error) {
	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("gzip a SARIF document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("close a gzip writer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func isSessionExpired(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusUnauthorized
}

func classify(resp *github.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("upload a SARIF document: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthDenied, err)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrStoreNotFound, err)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("upload a SARIF document: %w", err)
	}
}
